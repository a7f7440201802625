package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/utils/validation"
)

func TestEvaluationServiceCreateActivity(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)
	assert.NotZero(t, activity.ID)
	assert.Len(t, activity.Questions, 10)
	for _, question := range activity.Questions {
		assert.Len(t, question.Options, 5)
	}

	var stored model.Section
	require.NoError(t, db.First(&stored, section.ID).Error)
	require.NotNil(t, stored.EvaluationActivityID)
	assert.Equal(t, activity.ID, *stored.EvaluationActivityID)
}

func TestEvaluationServiceCreateActivityRejectsSecondQuiz(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")

	_, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	assert.ErrorIs(t, err, ErrEvaluationExists)
}

func TestEvaluationServiceCreateActivityValidatesQuestions(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")

	_, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(9),
	})
	assert.ErrorIs(t, err, validation.ErrQuestionCount)

	_, err = service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(16),
	})
	assert.ErrorIs(t, err, validation.ErrQuestionCount)
}

func TestEvaluationServiceDeleteActivityDetachesSection(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteActivity(context.Background(), activity.ID))

	var stored model.Section
	require.NoError(t, db.First(&stored, section.ID).Error)
	assert.Nil(t, stored.EvaluationActivityID)

	var questions int64
	require.NoError(t, db.Model(&model.Question{}).Count(&questions).Error)
	assert.Zero(t, questions)
}

// submitAnswers builds a submission answering the given number of questions
// correctly and the rest wrong.
func submitAnswers(activity *model.EvaluationActivity, correctCount int) SubmitRequest {
	var req SubmitRequest
	for i, question := range activity.Questions {
		var chosen model.QuestionOption
		for _, option := range question.Options {
			if option.Correct == (i < correctCount) {
				chosen = option
				break
			}
		}
		req.Answers = append(req.Answers, AnswerInput{
			QuestionID: question.ID,
			OptionID:   chosen.ID,
		})
	}
	return req
}

func TestEvaluationServiceSubmitGrades(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")
	enrollStudent(t, db, student.ID, course.ID)

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	result, err := service.Submit(context.Background(), student.ID, activity.ID, submitAnswers(activity, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, result.Correct)
	assert.Equal(t, 10, result.Total)
	assert.InDelta(t, 7.0, result.Grade, 0.001)
	assert.InDelta(t, 7.0, result.BestGrade, 0.001)
}

func TestEvaluationServiceSubmitKeepsBestGrade(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")
	enrollStudent(t, db, student.ID, course.ID)

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), student.ID, activity.ID, submitAnswers(activity, 9))
	require.NoError(t, err)

	// A worse retake must not lower the stored grade
	result, err := service.Submit(context.Background(), student.ID, activity.ID, submitAnswers(activity, 4))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, result.Grade, 0.001)
	assert.InDelta(t, 9.0, result.BestGrade, 0.001)

	var rows []model.EvaluationActivityResult
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.InDelta(t, 9.0, rows[0].Grade, 0.001)
	assert.Equal(t, course.ID, rows[0].CourseID)
}

func TestEvaluationServiceSubmitRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), student.ID, activity.ID, submitAnswers(activity, 10))
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestEvaluationServiceResultsForStudent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")
	enrollStudent(t, db, student.ID, course.ID)

	activity, err := service.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), student.ID, activity.ID, submitAnswers(activity, 8))
	require.NoError(t, err)

	results, err := service.ResultsForStudent(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, activity.ID, results[0].EvaluationActivityID)
	assert.InDelta(t, 8.0, results[0].Grade, 0.001)
}
