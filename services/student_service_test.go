package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/model"
)

func TestStudentServiceList(t *testing.T) {
	db := setupTestDB(t)
	service := NewStudentService(db)

	createStudent(t, db, "a@example.com")
	createStudent(t, db, "b@example.com")
	createStudent(t, db, "c@example.com")

	students, total, err := service.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, students, 2)
	assert.Equal(t, "a@example.com", students[0].User.Email)
}

func TestStudentServiceUpdate(t *testing.T) {
	db := setupTestDB(t)
	service := NewStudentService(db)
	student := createStudent(t, db, "student@example.com")

	newName := "Renamed Student"
	updated, err := service.Update(context.Background(), student.ID, UpdateStudentRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Student", updated.User.Name)

	_, err = service.Update(context.Background(), 999, UpdateStudentRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentServiceDeleteKeepsResults(t *testing.T) {
	db := setupTestDB(t)
	service := NewStudentService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	enrollStudent(t, db, student.ID, course.ID)

	result := model.EvaluationActivityResult{
		EvaluationActivityID: 1,
		StudentID:            student.ID,
		CourseID:             course.ID,
		Grade:                8.5,
	}
	require.NoError(t, db.Create(&result).Error)

	require.NoError(t, service.Delete(context.Background(), student.ID))

	_, err := service.GetByID(context.Background(), student.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)

	var enrollments int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, enrollments)

	// Grades stay behind as course history
	var results int64
	require.NoError(t, db.Model(&model.EvaluationActivityResult{}).Count(&results).Error)
	assert.EqualValues(t, 1, results)

	// The user row is soft deleted and no longer visible to queries
	var user model.User
	err = db.First(&user, student.UserID).Error
	assert.Error(t, err)
	require.NoError(t, db.Unscoped().First(&user, student.UserID).Error)
	assert.True(t, user.DeletedAt.Valid)
}
