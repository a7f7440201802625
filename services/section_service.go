package services

import (
	"context"
	"fmt"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// SectionService handles course sections
type SectionService struct {
	db *gorm.DB
}

// NewSectionService creates a new section service
func NewSectionService(db *gorm.DB) *SectionService {
	return &SectionService{db: db}
}

// CreateSectionRequest represents the request to create a section
type CreateSectionRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1,max=1000"`
}

// UpdateSectionRequest represents the request to update a section
type UpdateSectionRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1,max=1000"`
}

// Create adds a section to a course
func (s *SectionService) Create(ctx context.Context, courseID uint, req CreateSectionRequest) (*model.Section, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	section := model.Section{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
	}

	if err := s.db.WithContext(ctx).Create(&section).Error; err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	return &section, nil
}

// GetByID returns a section with its videos in display order
func (s *SectionService) GetByID(ctx context.Context, id uint) (*model.Section, error) {
	var section model.Section
	err := s.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.display_order ASC")
		}).
		Preload("EvaluationActivity.Questions.Options").
		First(&section, id).
		Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	return &section, nil
}

// ListByCourse returns all sections of a course
func (s *SectionService) ListByCourse(ctx context.Context, courseID uint) ([]model.Section, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var sections []model.Section
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.display_order ASC")
		}).
		Order("id ASC").
		Find(&sections).
		Error
	return sections, err
}

// Update applies partial changes to a section
func (s *SectionService) Update(ctx context.Context, id uint, req UpdateSectionRequest) (*model.Section, error) {
	var section model.Section
	if err := s.db.WithContext(ctx).First(&section, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return &section, nil
	}

	if err := s.db.WithContext(ctx).Model(&section).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	return &section, nil
}

// Delete removes a section, its videos and its evaluation activity
func (s *SectionService) Delete(ctx context.Context, id uint) error {
	var section model.Section
	if err := s.db.WithContext(ctx).First(&section, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrSectionNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if section.EvaluationActivityID != nil {
			activityID := *section.EvaluationActivityID

			var questionIDs []uint
			if err := tx.Model(&model.Question{}).
				Where("evaluation_activity_id = ?", activityID).
				Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).
					Delete(&model.QuestionOption{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("evaluation_activity_id = ?", activityID).
				Delete(&model.Question{}).Error; err != nil {
				return err
			}
			// Clear the reference before deleting the activity row.
			if err := tx.Model(&model.Section{}).
				Where("id = ?", id).
				Update("evaluation_activity_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.EvaluationActivity{}, activityID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("section_id = ?", id).
			Delete(&model.Video{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Section{}, id).Error
	})
}
