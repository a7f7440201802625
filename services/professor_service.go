package services

import (
	"context"
	"fmt"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// ProfessorService handles professor profile administration
type ProfessorService struct {
	db *gorm.DB
}

// NewProfessorService creates a new professor service
func NewProfessorService(db *gorm.DB) *ProfessorService {
	return &ProfessorService{db: db}
}

// UpdateProfessorRequest represents profile changes a professor may make
type UpdateProfessorRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url,max=512"`
}

// List returns all professors with their user accounts
func (s *ProfessorService) List(ctx context.Context, page, limit int) ([]model.Professor, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Professor{}).Count(&total).Error; err != nil {
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

	var professors []model.Professor
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&professors).
		Error
	return professors, total, err
}

// GetByID returns a professor with their user account
func (s *ProfessorService) GetByID(ctx context.Context, id uint) (*model.Professor, error) {
	var professor model.Professor
	err := s.db.WithContext(ctx).Preload("User").First(&professor, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	return &professor, nil
}

// Update applies partial changes to the professor profile and account
func (s *ProfessorService) Update(ctx context.Context, id uint, req UpdateProfessorRequest) (*model.Professor, error) {
	professor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userUpdates := map[string]interface{}{}
		if req.Name != nil {
			userUpdates["name"] = *req.Name
		}
		if req.Gender != nil {
			userUpdates["gender"] = *req.Gender
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&model.User{}).
				Where("id = ?", professor.UserID).
				Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		profileUpdates := map[string]interface{}{}
		if req.Bio != nil {
			profileUpdates["bio"] = *req.Bio
		}
		if req.ImageURL != nil {
			profileUpdates["image_url"] = *req.ImageURL
		}
		if len(profileUpdates) > 0 {
			if err := tx.Model(&model.Professor{}).
				Where("id = ?", id).
				Updates(profileUpdates).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update professor: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the professor profile and soft deletes the user account.
// Courses must be reassigned or deleted first; the check keeps orphaned
// courses out of the catalog.
func (s *ProfessorService) Delete(ctx context.Context, id uint) error {
	professor, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var courseCount int64
	if err := s.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("professor_id = ?", id).
		Count(&courseCount).Error; err != nil {
		return err
	}
	if courseCount > 0 {
		return fmt.Errorf("professor still owns %d courses", courseCount)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Professor{}, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, professor.UserID).Error
	})
}
