package services

import "errors"

// Domain errors returned by the service layer. Handlers map these to HTTP
// status codes in one place.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrProfessorNotFound  = errors.New("professor not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrEvaluationNotFound = errors.New("evaluation activity not found")

	ErrEmailTaken       = errors.New("email already in use")
	ErrAlreadyEnrolled  = errors.New("user already enrolled in this course")
	ErrNotEnrolled      = errors.New("user not enrolled in this course")
	ErrEvaluationExists = errors.New("section already has an evaluation activity")

	ErrNotCourseOwner         = errors.New("user does not own this course")
	ErrCertificateNotEligible = errors.New("student has not completed the course requirements")

	ErrInvalidDisplayOrder = errors.New("display order out of range")
	ErrInvalidFileType     = errors.New("unsupported file type")
)
