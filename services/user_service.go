package services

import (
	"context"
	"strings"

	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/utils/auth"
	"gorm.io/gorm"
)

// UserService handles account registration and credential checks
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterStudentRequest represents a student signup
type RegisterStudentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other"`
}

// RegisterProfessorRequest represents a professor signup
type RegisterProfessorRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female other"`
	Bio      string `json:"bio" validate:"omitempty,max=2000"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=512"`
}

func (s *UserService) emailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	return count > 0, err
}

// RegisterStudent creates a user account with an attached student profile
func (s *UserService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*model.Student, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var student model.Student
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := model.User{
			Email:        email,
			PasswordHash: hash,
			Name:         req.Name,
			Gender:       req.Gender,
			Role:         model.RoleStudent,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		student = model.Student{UserID: user.ID}
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		student.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &student, nil
}

// RegisterProfessor creates a user account with an attached professor profile
func (s *UserService) RegisterProfessor(ctx context.Context, req RegisterProfessorRequest) (*model.Professor, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var professor model.Professor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := model.User{
			Email:        email,
			PasswordHash: hash,
			Name:         req.Name,
			Gender:       req.Gender,
			Role:         model.RoleProfessor,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		professor = model.Professor{
			UserID:   user.ID,
			Bio:      req.Bio,
			ImageURL: req.ImageURL,
		}
		if err := tx.Create(&professor).Error; err != nil {
			return err
		}
		professor.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &professor, nil
}

// Authenticate verifies credentials and returns the user on success
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns a user account
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
