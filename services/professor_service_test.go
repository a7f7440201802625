package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfessorServiceUpdate(t *testing.T) {
	db := setupTestDB(t)
	service := NewProfessorService(db)
	professor := createProfessor(t, db, "prof@example.com")

	newName := "Dr. Renamed"
	newBio := "Now teaching compilers"
	updated, err := service.Update(context.Background(), professor.ID, UpdateProfessorRequest{
		Name: &newName,
		Bio:  &newBio,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Renamed", updated.User.Name)
	assert.Equal(t, "Now teaching compilers", updated.Bio)
}

func TestProfessorServiceDeleteRefusesCourseOwner(t *testing.T) {
	db := setupTestDB(t)
	service := NewProfessorService(db)

	professor := createProfessor(t, db, "prof@example.com")
	createCourse(t, db, professor.ID, "Go Programming")

	err := service.Delete(context.Background(), professor.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still owns")

	// Still resolvable after the refused delete
	_, err = service.GetByID(context.Background(), professor.ID)
	assert.NoError(t, err)
}

func TestProfessorServiceDelete(t *testing.T) {
	db := setupTestDB(t)
	service := NewProfessorService(db)
	professor := createProfessor(t, db, "prof@example.com")

	require.NoError(t, service.Delete(context.Background(), professor.ID))

	_, err := service.GetByID(context.Background(), professor.ID)
	assert.ErrorIs(t, err, ErrProfessorNotFound)
}
