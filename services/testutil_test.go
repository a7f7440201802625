package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Professor{},
		&model.Course{},
		&model.Section{},
		&model.Video{},
		&model.Enrollment{},
		&model.EvaluationActivity{},
		&model.Question{},
		&model.QuestionOption{},
		&model.EvaluationActivityResult{},
		&model.VideoWatched{},
		&model.JWTTokenBlacklist{},
	)
	require.NoError(t, err)

	return db
}

func createStudent(t *testing.T, db *gorm.DB, email string) *model.Student {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test Student",
		Role:         model.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)

	student := model.Student{UserID: user.ID}
	require.NoError(t, db.Create(&student).Error)
	student.User = user
	return &student
}

func createProfessor(t *testing.T, db *gorm.DB, email string) *model.Professor {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test Professor",
		Role:         model.RoleProfessor,
	}
	require.NoError(t, db.Create(&user).Error)

	professor := model.Professor{UserID: user.ID}
	require.NoError(t, db.Create(&professor).Error)
	professor.User = user
	return &professor
}

func createAdmin(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCourse(t *testing.T, db *gorm.DB, professorID uint, title string) *model.Course {
	t.Helper()

	course := model.Course{
		Title:       title,
		Description: "A course about " + title,
		ProfessorID: professorID,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func createSection(t *testing.T, db *gorm.DB, courseID uint, title string) *model.Section {
	t.Helper()

	section := model.Section{
		CourseID:    courseID,
		Title:       title,
		Description: "Section " + title,
	}
	require.NoError(t, db.Create(&section).Error)
	return &section
}

func enrollStudent(t *testing.T, db *gorm.DB, studentID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.Enrollment{StudentID: studentID, CourseID: courseID}).Error)
}

// quizQuestions builds a valid quiz payload with the first option correct
func quizQuestions(count int) []validation.QuestionInput {
	questions := make([]validation.QuestionInput, count)
	for i := range questions {
		options := make([]validation.OptionInput, validation.OptionsPerQuestion)
		for j := range options {
			options[j] = validation.OptionInput{
				Text:    fmt.Sprintf("Option %d", j+1),
				Correct: j == 0,
			}
		}
		questions[i] = validation.QuestionInput{
			Text:    fmt.Sprintf("Question %d", i+1),
			Options: options,
		}
	}
	return questions
}
