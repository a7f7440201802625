package certificate

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"gorm.io/gorm"
)

// CertificateHandler handles certificate eligibility and issuance requests
type CertificateHandler struct {
	db                 *gorm.DB
	certificateService *services.CertificateService
	authorizer         *services.Authorizer
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(db *gorm.DB, certificateService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{
		db:                 db,
		certificateService: certificateService,
		authorizer:         services.NewAuthorizer(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// CheckEligibility handles GET /api/v1/courses/:courseId/certificate/eligibility
func (h *CertificateHandler) CheckEligibility(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	student, svcErr := h.authorizer.StudentForUser(c.Context(), user.ID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to resolve student profile")
	}

	eligibility, svcErr := h.certificateService.CheckEligibility(c.Context(), student.ID, courseID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to check eligibility")
	}

	return response.Success(c, eligibility)
}

// RequestCertificate handles POST /api/v1/courses/:courseId/certificate
func (h *CertificateHandler) RequestCertificate(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	student, svcErr := h.authorizer.StudentForUser(c.Context(), user.ID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to resolve student profile")
	}

	message, svcErr := h.certificateService.RequestCertificate(c.Context(), student.ID, courseID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to request certificate")
	}

	return response.SuccessWithMessage(c, message, nil)
}
