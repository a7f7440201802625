package professor

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// ProfessorHandler handles professor administration requests
type ProfessorHandler struct {
	db               *gorm.DB
	validator        *validation.Validator
	professorService *services.ProfessorService
}

// NewProfessorHandler creates a new professor handler
func NewProfessorHandler(db *gorm.DB) *ProfessorHandler {
	return &ProfessorHandler{
		db:               db,
		validator:        validation.NewValidator(),
		professorService: services.NewProfessorService(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// canModify allows admins, or professors operating on their own profile
func (h *ProfessorHandler) canModify(c *fiber.Ctx, professorID uint) (bool, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return false, response.Unauthorized(c, "User not authenticated")
	}
	if user.Role == model.RoleAdmin {
		return true, nil
	}

	var professor model.Professor
	if err := h.db.First(&professor, professorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, response.NotFound(c, "Professor not found")
		}
		return false, response.InternalServerError(c, "Failed to fetch professor")
	}

	if professor.UserID != user.ID {
		return false, response.Forbidden(c, "Access denied")
	}
	return true, nil
}

// ListProfessors handles GET /api/v1/professors
func (h *ProfessorHandler) ListProfessors(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	professors, total, err := h.professorService.List(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch professors")
	}

	return response.Paginated(c, professors, response.CalculatePagination(page, limit, total))
}

// GetProfessor handles GET /api/v1/professors/:id
func (h *ProfessorHandler) GetProfessor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	professor, svcErr := h.professorService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch professor")
	}

	return response.Success(c, professor)
}

// UpdateProfessor handles PUT /api/v1/professors/:id
func (h *ProfessorHandler) UpdateProfessor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if ok, errResp := h.canModify(c, id); !ok {
		return errResp
	}

	var req services.UpdateProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	professor, svcErr := h.professorService.Update(c.Context(), id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to update professor")
	}

	return response.SuccessWithMessage(c, "Professor updated successfully", professor)
}

// DeleteProfessor handles DELETE /api/v1/professors/:id (admin only)
func (h *ProfessorHandler) DeleteProfessor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.professorService.Delete(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete professor")
	}

	return response.SuccessWithMessage(c, "Professor deleted successfully", nil)
}
