package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiliammelo/empoweru/clients"
)

// capturePublisher records published messages for inspection
type capturePublisher struct {
	mu       sync.Mutex
	queues   []string
	payloads []interface{}
}

func (p *capturePublisher) Publish(ctx context.Context, queue string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queues = append(p.queues, queue)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestCertificateServiceEligibilityRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	service := NewCertificateService(db, clients.NewDispatcher(&capturePublisher{}, 1, 8))

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")

	_, err := service.CheckEligibility(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = service.CheckEligibility(context.Background(), student.ID, 999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCertificateServiceEligibleWithoutActivities(t *testing.T) {
	db := setupTestDB(t)
	service := NewCertificateService(db, clients.NewDispatcher(&capturePublisher{}, 1, 8))

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	createSection(t, db, course.ID, "No Quiz Here")
	enrollStudent(t, db, student.ID, course.ID)

	eligibility, err := service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
	assert.Zero(t, eligibility.RequiredActivities)
}

func TestCertificateServiceEligibilityNeedsEveryPass(t *testing.T) {
	db := setupTestDB(t)
	service := NewCertificateService(db, clients.NewDispatcher(&capturePublisher{}, 1, 8))
	evaluationService := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	sectionA := createSection(t, db, course.ID, "Basics")
	sectionB := createSection(t, db, course.ID, "Advanced")
	enrollStudent(t, db, student.ID, course.ID)

	activityA, err := evaluationService.CreateActivity(context.Background(), sectionA.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)
	activityB, err := evaluationService.CreateActivity(context.Background(), sectionB.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	// No results yet
	eligibility, err := service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.EqualValues(t, 2, eligibility.RequiredActivities)
	assert.Zero(t, eligibility.CompletedPassed)

	// One pass, one failing grade
	_, err = evaluationService.Submit(context.Background(), student.ID, activityA.ID, submitAnswers(activityA, 8))
	require.NoError(t, err)
	_, err = evaluationService.Submit(context.Background(), student.ID, activityB.ID, submitAnswers(activityB, 5))
	require.NoError(t, err)

	eligibility, err = service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.EqualValues(t, 1, eligibility.CompletedPassed)

	// Retake lifts the failing grade past the bar
	_, err = evaluationService.Submit(context.Background(), student.ID, activityB.ID, submitAnswers(activityB, 7))
	require.NoError(t, err)

	eligibility, err = service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
	assert.EqualValues(t, 2, eligibility.CompletedPassed)
}

func TestCertificateServiceEligibilityIgnoresResultsOfDeletedActivities(t *testing.T) {
	db := setupTestDB(t)
	service := NewCertificateService(db, clients.NewDispatcher(&capturePublisher{}, 1, 8))
	evaluationService := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	sectionA := createSection(t, db, course.ID, "Basics")
	sectionB := createSection(t, db, course.ID, "Advanced")
	enrollStudent(t, db, student.ID, course.ID)

	activityA, err := evaluationService.CreateActivity(context.Background(), sectionA.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)
	activityB, err := evaluationService.CreateActivity(context.Background(), sectionB.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = evaluationService.Submit(context.Background(), student.ID, activityA.ID, submitAnswers(activityA, 8))
	require.NoError(t, err)
	_, err = evaluationService.Submit(context.Background(), student.ID, activityB.ID, submitAnswers(activityB, 5))
	require.NoError(t, err)

	// Removing the passed activity leaves its result behind as history.
	// That result must not stand in for the still failing quiz.
	require.NoError(t, evaluationService.DeleteActivity(context.Background(), activityA.ID))

	eligibility, err := service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligibility.Eligible)
	assert.EqualValues(t, 1, eligibility.RequiredActivities)
	assert.Zero(t, eligibility.CompletedPassed)

	// Passing the remaining quiz restores eligibility
	_, err = evaluationService.Submit(context.Background(), student.ID, activityB.ID, submitAnswers(activityB, 7))
	require.NoError(t, err)

	eligibility, err = service.CheckEligibility(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, eligibility.Eligible)
	assert.EqualValues(t, 1, eligibility.CompletedPassed)
}

func TestCertificateServiceRequestQueuesIssue(t *testing.T) {
	db := setupTestDB(t)
	publisher := &capturePublisher{}
	dispatcher := clients.NewDispatcher(publisher, 1, 8)
	service := NewCertificateService(db, dispatcher)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	enrollStudent(t, db, student.ID, course.ID)

	message, err := service.RequestCertificate(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, CertificateIssueMessage, message)

	// Flush the async dispatch before inspecting
	dispatcher.Close()

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.queues, 1)
	assert.Equal(t, clients.CertificateQueue, publisher.queues[0])

	payload, ok := publisher.payloads[0].(clients.CertificateMessage)
	require.True(t, ok)
	assert.Equal(t, student.ID, payload.StudentID)
	assert.Equal(t, "student@example.com", payload.Email)
	assert.Equal(t, "Go Programming", payload.CourseTitle)
}

func TestCertificateServiceRequestRejectsIneligible(t *testing.T) {
	db := setupTestDB(t)
	publisher := &capturePublisher{}
	dispatcher := clients.NewDispatcher(publisher, 1, 8)
	service := NewCertificateService(db, dispatcher)
	evaluationService := NewEvaluationService(db)

	professor := createProfessor(t, db, "prof@example.com")
	student := createStudent(t, db, "student@example.com")
	course := createCourse(t, db, professor.ID, "Go Programming")
	section := createSection(t, db, course.ID, "Basics")
	enrollStudent(t, db, student.ID, course.ID)

	_, err := evaluationService.CreateActivity(context.Background(), section.ID, CreateActivityRequest{
		Questions: quizQuestions(10),
	})
	require.NoError(t, err)

	_, err = service.RequestCertificate(context.Background(), student.ID, course.ID)
	assert.ErrorIs(t, err, ErrCertificateNotEligible)

	dispatcher.Close()
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.Empty(t, publisher.queues)
}
