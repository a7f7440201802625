package student

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

// StudentHandler handles student administration requests
type StudentHandler struct {
	db             *gorm.DB
	validator      *validation.Validator
	studentService *services.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		db:             db,
		validator:      validation.NewValidator(),
		studentService: services.NewStudentService(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// canAccess allows admins, or students operating on their own profile
func (h *StudentHandler) canAccess(c *fiber.Ctx, studentID uint) (bool, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return false, response.Unauthorized(c, "User not authenticated")
	}
	if user.Role == model.RoleAdmin {
		return true, nil
	}

	var student model.Student
	if err := h.db.First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, response.NotFound(c, "Student not found")
		}
		return false, response.InternalServerError(c, "Failed to fetch student")
	}

	if student.UserID != user.ID {
		return false, response.Forbidden(c, "Access denied")
	}
	return true, nil
}

// ListStudents handles GET /api/v1/students (admin only)
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	students, total, err := h.studentService.List(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	return response.Paginated(c, students, response.CalculatePagination(page, limit, total))
}

// GetStudent handles GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if ok, errResp := h.canAccess(c, id); !ok {
		return errResp
	}

	student, svcErr := h.studentService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch student")
	}

	return response.Success(c, student)
}

// UpdateStudent handles PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if ok, errResp := h.canAccess(c, id); !ok {
		return errResp
	}

	var req services.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	student, svcErr := h.studentService.Update(c.Context(), id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to update student")
	}

	return response.SuccessWithMessage(c, "Student updated successfully", student)
}

// DeleteStudent handles DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if ok, errResp := h.canAccess(c, id); !ok {
		return errResp
	}

	if err := h.studentService.Delete(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete student")
	}

	return response.SuccessWithMessage(c, "Student deleted successfully", nil)
}
