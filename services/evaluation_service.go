package services

import (
	"context"
	"fmt"

	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// MaxGrade is the grade awarded for a fully correct submission
const MaxGrade = 10.0

// EvaluationService handles quizzes and their results
type EvaluationService struct {
	db *gorm.DB
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{db: db}
}

// CreateActivityRequest represents the request to attach a quiz to a section
type CreateActivityRequest struct {
	Questions []validation.QuestionInput `json:"questions" validate:"required,dive"`
}

// SubmitRequest represents a student's answers, one option per question
type SubmitRequest struct {
	Answers []AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// AnswerInput pairs a question with the chosen option
type AnswerInput struct {
	QuestionID uint `json:"question_id" validate:"required"`
	OptionID   uint `json:"option_id" validate:"required"`
}

// SubmitResult is the outcome of a submission
type SubmitResult struct {
	Grade     float64 `json:"grade"`
	BestGrade float64 `json:"best_grade"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
}

// CreateActivity attaches a quiz to a section. A section holds at most one
// evaluation activity.
func (s *EvaluationService) CreateActivity(ctx context.Context, sectionID uint, req CreateActivityRequest) (*model.EvaluationActivity, error) {
	if err := validation.ValidateQuestions(req.Questions); err != nil {
		return nil, err
	}

	var section model.Section
	if err := s.db.WithContext(ctx).First(&section, sectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	var activity model.EvaluationActivity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity = model.EvaluationActivity{}
		for _, q := range req.Questions {
			question := model.Question{Text: q.Text}
			for _, o := range q.Options {
				question.Options = append(question.Options, model.QuestionOption{
					Text:    o.Text,
					Correct: o.Correct,
				})
			}
			activity.Questions = append(activity.Questions, question)
		}

		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("failed to create evaluation activity: %w", err)
		}

		// The attach only lands on a section without an activity. Zero rows
		// means another quiz already holds the slot; rolling back discards
		// the activity created above.
		res := tx.Model(&model.Section{}).
			Where("id = ? AND evaluation_activity_id IS NULL", sectionID).
			Update("evaluation_activity_id", activity.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEvaluationExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// GetActivity returns a quiz with its questions and options
func (s *EvaluationService) GetActivity(ctx context.Context, id uint) (*model.EvaluationActivity, error) {
	var activity model.EvaluationActivity
	err := s.db.WithContext(ctx).
		Preload("Questions.Options").
		First(&activity, id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// DeleteActivity removes a quiz and detaches it from its section
func (s *EvaluationService) DeleteActivity(ctx context.Context, id uint) error {
	var activity model.EvaluationActivity
	if err := s.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrEvaluationNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Section{}).
			Where("evaluation_activity_id = ?", id).
			Update("evaluation_activity_id", nil).Error; err != nil {
			return err
		}

		var questionIDs []uint
		if err := tx.Model(&model.Question{}).
			Where("evaluation_activity_id = ?", id).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.QuestionOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("evaluation_activity_id = ?", id).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.EvaluationActivity{}, id).Error
	})
}

// Submit grades the student's answers against the correct options and stores
// the result. A student keeps their best grade across submissions.
func (s *EvaluationService) Submit(ctx context.Context, studentID, activityID uint, req SubmitRequest) (*SubmitResult, error) {
	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	// Resolve the owning section to record the course on the result row.
	var section model.Section
	if err := s.db.WithContext(ctx).
		Where("evaluation_activity_id = ?", activityID).
		First(&section).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}

	enrolled := int64(0)
	if err := s.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, section.CourseID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, ErrNotEnrolled
	}

	chosen := make(map[uint]uint, len(req.Answers))
	for _, a := range req.Answers {
		chosen[a.QuestionID] = a.OptionID
	}

	correct := 0
	for _, q := range activity.Questions {
		optionID, answered := chosen[q.ID]
		if !answered {
			continue
		}
		for _, o := range q.Options {
			if o.ID == optionID && o.Correct {
				correct++
				break
			}
		}
	}

	total := len(activity.Questions)
	grade := 0.0
	if total > 0 {
		grade = MaxGrade * float64(correct) / float64(total)
	}

	result := &SubmitResult{
		Grade:   grade,
		Correct: correct,
		Total:   total,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.EvaluationActivityResult
		err := tx.Where("evaluation_activity_id = ? AND student_id = ?", activityID, studentID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			record := model.EvaluationActivityResult{
				EvaluationActivityID: activityID,
				StudentID:            studentID,
				CourseID:             section.CourseID,
				Grade:                grade,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			result.BestGrade = grade
			return nil
		}
		if err != nil {
			return err
		}

		if grade > existing.Grade {
			if err := tx.Model(&existing).Update("grade", grade).Error; err != nil {
				return err
			}
			result.BestGrade = grade
		} else {
			result.BestGrade = existing.Grade
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ResultsForStudent returns a student's results within a course
func (s *EvaluationService) ResultsForStudent(ctx context.Context, studentID, courseID uint) ([]model.EvaluationActivityResult, error) {
	var results []model.EvaluationActivityResult
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("id ASC").
		Find(&results).
		Error
	return results, err
}
