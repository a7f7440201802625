package evaluation

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

// EvaluationHandler handles quiz-related requests
type EvaluationHandler struct {
	db                *gorm.DB
	validator         *validation.Validator
	evaluationService *services.EvaluationService
	authorizer        *services.Authorizer
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(db *gorm.DB) *EvaluationHandler {
	return &EvaluationHandler{
		db:                db,
		validator:         validation.NewValidator(),
		evaluationService: services.NewEvaluationService(db),
		authorizer:        services.NewAuthorizer(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// CreateActivity handles POST /api/v1/sections/:sectionId/evaluation
func (h *EvaluationHandler) CreateActivity(c *fiber.Ctx) error {
	sectionID, err := parseID(c, "sectionId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, sectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	activity, svcErr := h.evaluationService.CreateActivity(c.Context(), sectionID, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to create evaluation activity")
	}

	return response.Created(c, activity)
}

// GetActivity handles GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetActivity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	activity, svcErr := h.evaluationService.GetActivity(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch evaluation activity")
	}

	return response.Success(c, activity)
}

// DeleteActivity handles DELETE /api/v1/evaluations/:id
func (h *EvaluationHandler) DeleteActivity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	// Authorization runs through the owning section
	var sectionID uint
	row := h.db.WithContext(c.Context()).
		Table("sections").
		Select("id").
		Where("evaluation_activity_id = ?", id).
		Row()
	if err := row.Scan(&sectionID); err != nil {
		return response.NotFound(c, "Evaluation activity not found")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, sectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	if err := h.evaluationService.DeleteActivity(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete evaluation activity")
	}

	return response.SuccessWithMessage(c, "Evaluation activity deleted successfully", nil)
}

// Submit handles POST /api/v1/evaluations/:id/submit
func (h *EvaluationHandler) Submit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	student, svcErr := h.authorizer.StudentForUser(c.Context(), user.ID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to resolve student profile")
	}

	result, svcErr := h.evaluationService.Submit(c.Context(), student.ID, id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to submit answers")
	}

	return response.Success(c, result)
}

// MyResults handles GET /api/v1/courses/:courseId/results
func (h *EvaluationHandler) MyResults(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	student, svcErr := h.authorizer.StudentForUser(c.Context(), user.ID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to resolve student profile")
	}

	results, err := h.evaluationService.ResultsForStudent(c.Context(), student.ID, courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch results")
	}

	return response.Success(c, results)
}
