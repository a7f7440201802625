package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/model"
)

func TestUserServiceRegisterStudent(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	student, err := service.RegisterStudent(context.Background(), RegisterStudentRequest{
		Name:     "Maria Silva",
		Email:    "  Maria@Example.COM ",
		Password: "correct horse battery",
		Gender:   "female",
	})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "maria@example.com", student.User.Email)
	assert.Equal(t, model.RoleStudent, student.User.Role)
	assert.NotEqual(t, "correct horse battery", student.User.PasswordHash)
}

func TestUserServiceRegisterProfessor(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	professor, err := service.RegisterProfessor(context.Background(), RegisterProfessorRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "correct horse battery",
		Bio:      "Teaches distributed systems",
	})
	require.NoError(t, err)
	assert.NotZero(t, professor.ID)
	assert.Equal(t, model.RoleProfessor, professor.User.Role)
	assert.Equal(t, "Teaches distributed systems", professor.Bio)
}

func TestUserServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	_, err := service.RegisterStudent(context.Background(), RegisterStudentRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// Same address with different casing still collides
	_, err = service.RegisterProfessor(context.Background(), RegisterProfessorRequest{
		Name:     "Other Maria",
		Email:    "MARIA@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	_, err := service.RegisterStudent(context.Background(), RegisterStudentRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	user, err := service.Authenticate(context.Background(), "Maria@Example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)

	_, err = service.Authenticate(context.Background(), "maria@example.com", "wrong password")
	assert.Error(t, err)

	_, err = service.Authenticate(context.Background(), "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
