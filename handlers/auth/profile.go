package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"gorm.io/gorm"
)

// ProfileResponse pairs the account with its role-specific profile
type ProfileResponse struct {
	User        UserResponse `json:"user"`
	StudentID   *uint        `json:"student_id,omitempty"`
	ProfessorID *uint        `json:"professor_id,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
}

// GetProfile handles GET /api/v1/auth/me
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	res := ProfileResponse{User: newUserResponse(user)}

	switch user.Role {
	case model.RoleStudent:
		var student model.Student
		if err := h.db.Where("user_id = ?", user.ID).First(&student).Error; err == nil {
			res.StudentID = &student.ID
		}
	case model.RoleProfessor:
		var professor model.Professor
		err := h.db.Where("user_id = ?", user.ID).First(&professor).Error
		if err == nil {
			res.ProfessorID = &professor.ID
			res.Bio = professor.Bio
			res.ImageURL = professor.ImageURL
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, "Failed to load profile")
		}
	}

	return response.Success(c, res)
}
