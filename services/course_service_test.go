package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/model"
)

func TestCourseServiceCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")

	course, err := service.Create(context.Background(), professor.ID, CreateCourseRequest{
		Title:       "Go Programming",
		Description: "From zero to production",
		Tags:        []string{"go", "backend"},
	})
	require.NoError(t, err)
	assert.NotZero(t, course.ID)
	assert.Equal(t, professor.ID, course.ProfessorID)
	assert.Len(t, []string(course.Tags), 2)
}

func TestCourseServiceCreateUnknownProfessor(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)

	_, err := service.Create(context.Background(), 999, CreateCourseRequest{
		Title:       "Ghost Course",
		Description: "No professor owns this",
	})
	assert.ErrorIs(t, err, ErrProfessorNotFound)
}

func TestCourseServiceGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)

	_, err := service.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceListFilters(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professorA := createProfessor(t, db, "a@example.com")
	professorB := createProfessor(t, db, "b@example.com")

	_, err := service.Create(context.Background(), professorA.ID, CreateCourseRequest{
		Title:       "Go Programming",
		Description: "Backend course",
		Tags:        []string{"go", "backend"},
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), professorA.ID, CreateCourseRequest{
		Title:       "Rust Programming",
		Description: "Systems course",
		Tags:        []string{"rust"},
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), professorB.ID, CreateCourseRequest{
		Title:       "Linear Algebra",
		Description: "Math course",
		Tags:        []string{"math"},
	})
	require.NoError(t, err)

	courses, total, err := service.List(context.Background(), CourseFilter{Title: "programming"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, courses, 2)

	courses, total, err = service.List(context.Background(), CourseFilter{Tag: "go"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Programming", courses[0].Title)

	_, total, err = service.List(context.Background(), CourseFilter{ProfessorID: professorB.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCourseServiceListPagination(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")

	for i := 0; i < 5; i++ {
		createCourse(t, db, professor.ID, "Course")
	}

	courses, total, err := service.List(context.Background(), CourseFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, courses, 2)
}

func TestCourseServiceUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")
	course := createCourse(t, db, professor.ID, "Old Title")

	newTitle := "New Title"
	updated, err := service.Update(context.Background(), course.ID, UpdateCourseRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	var stored model.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, "New Title", stored.Title)
	assert.Equal(t, course.Description, stored.Description)
}

func TestCourseServiceDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	courseService := NewCourseService(db)
	evaluationService := NewEvaluationService(db)
	videoService := NewVideoService(db, &fakeUploader{})

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Doomed Course")
	section := createSection(t, db, course.ID, "Only Section")
	enrollStudent(t, db, student.ID, course.ID)

	_, err := videoService.Upload(context.Background(), section.ID, UploadVideoRequest{
		Title:        "Intro",
		DisplayOrder: 1,
		ContentType:  "video/mp4",
		FileKey:      "videos/1/intro.mp4",
	})
	require.NoError(t, err)

	_, err = evaluationService.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	require.NoError(t, courseService.Delete(context.Background(), course.ID))

	for _, target := range []interface{}{
		&model.Course{}, &model.Section{}, &model.Video{},
		&model.EvaluationActivity{}, &model.Question{}, &model.QuestionOption{},
		&model.Enrollment{},
	} {
		var count int64
		require.NoError(t, db.Model(target).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestCourseServiceEnroll(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")

	require.NoError(t, service.Enroll(context.Background(), student.ID, course.ID))

	enrolled, err := service.IsEnrolled(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	err = service.Enroll(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestCourseServiceEnrollUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	student := createStudent(t, db, "student@example.com")

	err := service.Enroll(context.Background(), student.ID, 999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseServiceDisenroll(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")

	err := service.Disenroll(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	enrollStudent(t, db, student.ID, course.ID)
	require.NoError(t, service.Disenroll(context.Background(), student.ID, course.ID))

	enrolled, err := service.IsEnrolled(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestCourseServiceEnrolledCourses(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db)
	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	courseA := createCourse(t, db, professor.ID, "Course A")
	createCourse(t, db, professor.ID, "Course B")
	enrollStudent(t, db, student.ID, courseA.ID)

	courses, err := service.EnrolledCourses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Course A", courses[0].Title)
}

func TestCourseServiceSummary(t *testing.T) {
	db := setupTestDB(t)
	courseService := NewCourseService(db)
	videoService := NewVideoService(db, &fakeUploader{})

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")
	enrollStudent(t, db, student.ID, course.ID)

	for i, duration := range []float64{120, 300} {
		_, err := videoService.Upload(context.Background(), section.ID, UploadVideoRequest{
			Title:           "Video",
			DurationSeconds: duration,
			DisplayOrder:    i + 1,
			ContentType:     "video/mp4",
			FileKey:         "videos/1/v.mp4",
		})
		require.NoError(t, err)
	}

	summary, err := courseService.Summary(context.Background(), course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.SectionCount)
	assert.EqualValues(t, 1, summary.StudentCount)
	assert.EqualValues(t, 420, summary.TotalDuration)
}
