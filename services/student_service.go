package services

import (
	"context"
	"fmt"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// StudentService handles student profile administration
type StudentService struct {
	db *gorm.DB
}

// NewStudentService creates a new student service
func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// UpdateStudentRequest represents account changes a student may make
type UpdateStudentRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=255"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other"`
}

// List returns all students with their user accounts
func (s *StudentService) List(ctx context.Context, page, limit int) ([]model.Student, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Student{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var students []model.Student
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&students).
		Error
	return students, total, err
}

// GetByID returns a student with their user account
func (s *StudentService) GetByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Preload("User").First(&student, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// Update applies partial changes to the student's user account
func (s *StudentService) Update(ctx context.Context, id uint, req UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}

	if len(updates) == 0 {
		return student, nil
	}

	if err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", student.UserID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the student profile, their enrollments and the user account.
// The user row is soft deleted; evaluation results stay as course history.
func (s *StudentService) Delete(ctx context.Context, id uint) error {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).
			Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).
			Delete(&model.VideoWatched{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Student{}, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, student.UserID).Error
	})
}
