package common

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
)

// DomainError maps service layer errors to HTTP responses. Unknown errors
// become a 500 with the fallback message so internals never leak.
func DomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrProfessorNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrVideoNotFound),
		errors.Is(err, services.ErrEvaluationNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrEvaluationExists):
		return response.Conflict(c, err.Error())

	case errors.Is(err, services.ErrNotEnrolled),
		errors.Is(err, services.ErrCertificateNotEligible),
		errors.Is(err, services.ErrInvalidDisplayOrder),
		errors.Is(err, services.ErrInvalidFileType):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrNotCourseOwner):
		return response.Forbidden(c, err.Error())

	case errors.Is(err, validation.ErrQuestionCount),
		errors.Is(err, validation.ErrOptionCount),
		errors.Is(err, validation.ErrOneCorrect):
		return response.ValidationError(c, err)
	}

	return response.InternalServerError(c, fallback)
}
