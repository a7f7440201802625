package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	db            *gorm.DB
	validator     *validation.Validator
	courseService *services.CourseService
	videoService  *services.VideoService
	authorizer    *services.Authorizer
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, videoService *services.VideoService) *CourseHandler {
	return &CourseHandler{
		db:            db,
		validator:     validation.NewValidator(),
		courseService: services.NewCourseService(db),
		videoService:  videoService,
		authorizer:    services.NewAuthorizer(db),
	}
}

// CourseDetailResponse is the course payload for authenticated students,
// annotated with their enrollment and watch progress.
type CourseDetailResponse struct {
	Course          *model.Course `json:"course"`
	Enrolled        bool          `json:"enrolled"`
	WatchedVideoIDs []uint        `json:"watched_video_ids,omitempty"`
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	professorID, _ := strconv.Atoi(c.Query("professor_id", "0"))

	filter := services.CourseFilter{
		Title:       c.Query("title", ""),
		Tag:         c.Query("tag", ""),
		ProfessorID: uint(professorID),
		Page:        page,
		Limit:       limit,
	}

	courses, total, err := h.courseService.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, response.CalculatePagination(page, limit, total))
}

// GetCourse handles GET /api/v1/courses/:id. When the caller is an
// authenticated student the payload carries their enrollment flag and
// watched video IDs.
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	course, svcErr := h.courseService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch course")
	}

	detail := CourseDetailResponse{Course: course}

	if user, ok := middleware.GetUser(c); ok && user.Role == model.RoleStudent {
		student, err := h.authorizer.StudentForUser(c.Context(), user.ID)
		if err == nil {
			enrolled, err := h.courseService.IsEnrolled(c.Context(), student.ID, id)
			if err == nil && enrolled {
				detail.Enrolled = true
				watched, err := h.videoService.WatchedVideoIDs(c.Context(), student.ID, id)
				if err == nil {
					detail.WatchedVideoIDs = watched
				}
			}
		}
	}

	return response.Success(c, detail)
}

// GetCourseSummary handles GET /api/v1/courses/:id/summary
func (h *CourseHandler) GetCourseSummary(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	summary, svcErr := h.courseService.Summary(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch course summary")
	}

	return response.Success(c, summary)
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)

	professor, err := h.authorizer.ProfessorForUser(c.Context(), user.ID)
	if err != nil {
		return common.DomainError(c, err, "Failed to resolve professor profile")
	}

	course, err := h.courseService.Create(c.Context(), professor.ID, req)
	if err != nil {
		return common.DomainError(c, err, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.authorizer.CanModifyCourse(c.Context(), user, id); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	course, svcErr := h.courseService.Update(c.Context(), id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to update course")
	}

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.authorizer.CanModifyCourse(c.Context(), user, id); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	if err := h.courseService.Delete(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}

// Enroll handles POST /api/v1/courses/:id/enroll
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
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

	if err := h.courseService.Enroll(c.Context(), student.ID, id); err != nil {
		return common.DomainError(c, err, "Failed to enroll")
	}

	return response.SuccessWithMessage(c, "Enrolled successfully", nil)
}

// Disenroll handles POST /api/v1/courses/:id/disenroll
func (h *CourseHandler) Disenroll(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
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

	if err := h.courseService.Disenroll(c.Context(), student.ID, id); err != nil {
		return common.DomainError(c, err, "Failed to disenroll")
	}

	return response.SuccessWithMessage(c, "Disenrolled successfully", nil)
}

// MyCourses handles GET /api/v1/courses/enrolled
func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	student, svcErr := h.authorizer.StudentForUser(c.Context(), user.ID)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to resolve student profile")
	}

	courses, err := h.courseService.EnrolledCourses(c.Context(), student.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}
