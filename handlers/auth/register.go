package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/clients"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
)

// RegisterStudent handles POST /api/v1/auth/register/student
func (h *AuthHandler) RegisterStudent(c *fiber.Ctx) error {
	var req services.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)

	student, err := h.userService.RegisterStudent(c.Context(), req)
	if err != nil {
		return common.DomainError(c, err, "Failed to register student")
	}

	// Welcome email is sent by a background worker
	h.dispatcher.Dispatch(clients.GreetingsQueue, clients.GreetingsMessage{
		Name:  student.User.Name,
		Email: student.User.Email,
		Role:  string(student.User.Role),
	})

	return response.Created(c, fiber.Map{
		"student_id": student.ID,
		"user":       newUserResponse(&student.User),
	})
}

// RegisterProfessor handles POST /api/v1/auth/register/professor
func (h *AuthHandler) RegisterProfessor(c *fiber.Ctx) error {
	var req services.RegisterProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Bio = validation.SanitizeString(req.Bio)

	professor, err := h.userService.RegisterProfessor(c.Context(), req)
	if err != nil {
		return common.DomainError(c, err, "Failed to register professor")
	}

	h.dispatcher.Dispatch(clients.GreetingsQueue, clients.GreetingsMessage{
		Name:  professor.User.Name,
		Email: professor.User.Email,
		Role:  string(professor.User.Role),
	})

	return response.Created(c, fiber.Map{
		"professor_id": professor.ID,
		"user":         newUserResponse(&professor.User),
	})
}
