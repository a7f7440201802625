package section

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// SectionHandler handles section-related requests
type SectionHandler struct {
	db             *gorm.DB
	validator      *validation.Validator
	sectionService *services.SectionService
	authorizer     *services.Authorizer
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(db *gorm.DB) *SectionHandler {
	return &SectionHandler{
		db:             db,
		validator:      validation.NewValidator(),
		sectionService: services.NewSectionService(db),
		authorizer:     services.NewAuthorizer(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// ListSections handles GET /api/v1/courses/:courseId/sections
func (h *SectionHandler) ListSections(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	sections, svcErr := h.sectionService.ListByCourse(c.Context(), courseID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch sections")
	}

	return response.Success(c, sections)
}

// GetSection handles GET /api/v1/sections/:id
func (h *SectionHandler) GetSection(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	section, svcErr := h.sectionService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch section")
	}

	return response.Success(c, section)
}

// CreateSection handles POST /api/v1/courses/:courseId/sections
func (h *SectionHandler) CreateSection(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)

	if err := h.authorizer.CanModifyCourse(c.Context(), user, courseID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	section, svcErr := h.sectionService.Create(c.Context(), courseID, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to create section")
	}

	return response.Created(c, section)
}

// UpdateSection handles PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, id); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	section, svcErr := h.sectionService.Update(c.Context(), id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to update section")
	}

	return response.SuccessWithMessage(c, "Section updated successfully", section)
}

// DeleteSection handles DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, id); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	if err := h.sectionService.Delete(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete section")
	}

	return response.SuccessWithMessage(c, "Section deleted successfully", nil)
}
