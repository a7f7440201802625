package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseService handles course lifecycle and enrollment
type CourseService struct {
	db *gorm.DB
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// CreateCourseRequest represents the request to create a course
type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"required,min=1,max=1000"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

// UpdateCourseRequest represents the request to update a course.
// Nil fields are left untouched.
type UpdateCourseRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,min=1,max=1000"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

// CourseFilter narrows course listings
type CourseFilter struct {
	Title       string
	Tag         string
	ProfessorID uint
	Page        int
	Limit       int
}

// CourseSummary is the listing shape with aggregate fields
type CourseSummary struct {
	Course        model.Course `json:"course"`
	SectionCount  int64        `json:"section_count"`
	StudentCount  int64        `json:"student_count"`
	TotalDuration float64      `json:"total_duration_seconds"`
}

// Create creates a course owned by the given professor
func (s *CourseService) Create(ctx context.Context, professorID uint, req CreateCourseRequest) (*model.Course, error) {
	var professor model.Professor
	if err := s.db.WithContext(ctx).First(&professor, professorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}

	course := model.Course{
		Title:       req.Title,
		Description: req.Description,
		Tags:        datatypes.NewJSONSlice(req.Tags),
		ProfessorID: professor.ID,
	}

	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return &course, nil
}

// GetByID returns a course with its sections, videos and evaluation questions
func (s *CourseService) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).
		Preload("Professor").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.id ASC")
		}).
		Preload("Sections.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.display_order ASC")
		}).
		Preload("Sections.EvaluationActivity.Questions.Options").
		First(&course, id).
		Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	return &course, nil
}

// List returns courses matching the filter with pagination
func (s *CourseService) List(ctx context.Context, filter CourseFilter) ([]model.Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Course{})

	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; a substring match on the quoted
		// value covers both Postgres jsonb and SQLite text storage.
		query = query.Where("tags LIKE ?", "%"+`"`+filter.Tag+`"`+"%")
	}
	if filter.ProfessorID != 0 {
		query = query.Where("professor_id = ?", filter.ProfessorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var courses []model.Course
	err := query.
		Preload("Professor").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).
		Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Summary returns aggregate numbers for a course
func (s *CourseService) Summary(ctx context.Context, courseID uint) (*CourseSummary, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	summary := CourseSummary{Course: *course}

	if err := s.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("course_id = ?", courseID).
		Count(&summary.SectionCount).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&summary.StudentCount).Error; err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.Video{}).
		Select("COALESCE(SUM(videos.duration_seconds), 0)").
		Joins("JOIN sections ON sections.id = videos.section_id").
		Where("sections.course_id = ?", courseID).
		Scan(&summary.TotalDuration).
		Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// Update applies partial changes to a course
func (s *CourseService) Update(ctx context.Context, id uint, req UpdateCourseRequest) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
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
	if req.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(*req.Tags)
	}

	if len(updates) == 0 {
		return &course, nil
	}

	if err := s.db.WithContext(ctx).Model(&course).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return &course, nil
}

// Delete removes a course and everything hanging off it. The cascade is
// explicit so it behaves the same on every database.
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCourseNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&model.Section{}).
			Where("course_id = ?", id).
			Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}

		if len(sectionIDs) > 0 {
			var activityIDs []uint
			if err := tx.Model(&model.Section{}).
				Where("id IN ? AND evaluation_activity_id IS NOT NULL", sectionIDs).
				Pluck("evaluation_activity_id", &activityIDs).Error; err != nil {
				return err
			}

			if len(activityIDs) > 0 {
				var questionIDs []uint
				if err := tx.Model(&model.Question{}).
					Where("evaluation_activity_id IN ?", activityIDs).
					Pluck("id", &questionIDs).Error; err != nil {
					return err
				}
				if len(questionIDs) > 0 {
					if err := tx.Where("question_id IN ?", questionIDs).
						Delete(&model.QuestionOption{}).Error; err != nil {
						return err
					}
				}
				if err := tx.Where("evaluation_activity_id IN ?", activityIDs).
					Delete(&model.Question{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", activityIDs).
					Delete(&model.EvaluationActivity{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("section_id IN ?", sectionIDs).
				Delete(&model.Video{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", sectionIDs).
				Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).
			Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Course{}, id).Error
	})
}

// Enroll adds the student to the course roster
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID uint) error {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCourseNotFound
		}
		return err
	}

	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrStudentNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyEnrolled
		}

		enrollment := model.Enrollment{
			StudentID: studentID,
			CourseID:  courseID,
		}
		return tx.Create(&enrollment).Error
	})
}

// Disenroll removes the student from the course roster
func (s *CourseService) Disenroll(ctx context.Context, studentID, courseID uint) error {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCourseNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&model.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotEnrolled
	}

	return nil
}

// IsEnrolled reports whether the student is on the course roster
func (s *CourseService) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnrolledCourses lists the courses a student is enrolled in
func (s *CourseService) EnrolledCourses(ctx context.Context, studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Preload("Professor").
		Order("courses.id ASC").
		Find(&courses).
		Error
	return courses, err
}
