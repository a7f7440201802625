package services

import (
	"context"

	"github.com/wiliammelo/empoweru/clients"
	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// MinPassingGrade is the lowest grade that counts toward certificate
// eligibility.
const MinPassingGrade = 7.0

// CertificateIssueMessage is returned to the caller while the certificate
// is generated by a background worker.
const CertificateIssueMessage = "Certificate issue in progress. You will receive it by email shortly."

// CertificateService decides certificate eligibility and hands issuance off
// to the queue worker.
type CertificateService struct {
	db         *gorm.DB
	dispatcher *clients.Dispatcher
}

// NewCertificateService creates a new certificate service
func NewCertificateService(db *gorm.DB, dispatcher *clients.Dispatcher) *CertificateService {
	return &CertificateService{db: db, dispatcher: dispatcher}
}

// Eligibility describes where a student stands in a course
type Eligibility struct {
	Eligible           bool    `json:"eligible"`
	RequiredActivities int64   `json:"required_activities"`
	CompletedPassed    int64   `json:"completed_passed"`
	MinPassingGrade    float64 `json:"min_passing_grade"`
}

// CheckEligibility computes whether the student may receive a certificate.
// A course with no evaluation activities is always eligible for its enrolled
// students. Otherwise the student needs a passing result for every activity.
func (s *CertificateService) CheckEligibility(ctx context.Context, studentID, courseID uint) (*Eligibility, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var enrolled int64
	if err := s.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, ErrNotEnrolled
	}

	var activityIDs []uint
	if err := s.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("course_id = ? AND evaluation_activity_id IS NOT NULL", courseID).
		Pluck("evaluation_activity_id", &activityIDs).Error; err != nil {
		return nil, err
	}

	eligibility := &Eligibility{
		RequiredActivities: int64(len(activityIDs)),
		MinPassingGrade:    MinPassingGrade,
	}

	if len(activityIDs) == 0 {
		eligibility.Eligible = true
		return eligibility, nil
	}

	// Only results for the activities still attached to the course count.
	// Result rows outlive a deleted activity as history and must not stand
	// in for a current one. One result per (activity, student), so a passing
	// result per required activity means the count matches.
	var passed int64
	if err := s.db.WithContext(ctx).
		Model(&model.EvaluationActivityResult{}).
		Where("student_id = ? AND evaluation_activity_id IN ? AND grade >= ?", studentID, activityIDs, MinPassingGrade).
		Count(&passed).Error; err != nil {
		return nil, err
	}

	eligibility.CompletedPassed = passed
	eligibility.Eligible = passed == eligibility.RequiredActivities
	return eligibility, nil
}

// RequestCertificate verifies eligibility and queues the certificate for
// issuance. The actual document is produced by a background worker; the
// caller only gets an acknowledgement.
func (s *CertificateService) RequestCertificate(ctx context.Context, studentID, courseID uint) (string, error) {
	eligibility, err := s.CheckEligibility(ctx, studentID, courseID)
	if err != nil {
		return "", err
	}
	if !eligibility.Eligible {
		return "", ErrCertificateNotEligible
	}

	var student model.Student
	if err := s.db.WithContext(ctx).Preload("User").First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrStudentNotFound
		}
		return "", err
	}

	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrCourseNotFound
		}
		return "", err
	}

	s.dispatcher.Dispatch(clients.CertificateQueue, clients.CertificateMessage{
		StudentID:   student.ID,
		StudentName: student.User.Name,
		Email:       student.User.Email,
		CourseID:    course.ID,
		CourseTitle: course.Title,
	})

	return CertificateIssueMessage, nil
}
