package video

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wiliammelo/empoweru/handlers/common"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"github.com/wiliammelo/empoweru/utils/validation"
	"gorm.io/gorm"
)

// MaxUploadSize caps video uploads at 512 MiB
const MaxUploadSize = 512 << 20

// VideoHandler handles video-related requests
type VideoHandler struct {
	db           *gorm.DB
	validator    *validation.Validator
	videoService *services.VideoService
	authorizer   *services.Authorizer
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(db *gorm.DB, videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{
		db:           db,
		validator:    validation.NewValidator(),
		videoService: videoService,
		authorizer:   services.NewAuthorizer(db),
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid "+name)
	}
	return uint(id), nil
}

// UploadVideo handles POST /api/v1/sections/:sectionId/videos.
// The request is multipart/form-data with the file plus title,
// duration_seconds and display_order fields.
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	sectionID, err := parseID(c, "sectionId")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, sectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Video file is required")
	}
	if fileHeader.Size > MaxUploadSize {
		return response.BadRequest(c, "Video file exceeds the upload limit")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	if title == "" {
		return response.BadRequest(c, "Title is required")
	}

	duration, err := strconv.ParseFloat(c.FormValue("duration_seconds", "0"), 64)
	if err != nil || duration < 0 {
		return response.BadRequest(c, "Invalid duration")
	}

	displayOrder, err := strconv.Atoi(c.FormValue("display_order", "1"))
	if err != nil {
		return response.BadRequest(c, "Invalid display order")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := fmt.Sprintf("videos/%d/%s%s", sectionID, uuid.New().String(), filepath.Ext(fileHeader.Filename))

	video, svcErr := h.videoService.Upload(c.Context(), sectionID, services.UploadVideoRequest{
		Title:           title,
		DurationSeconds: duration,
		DisplayOrder:    displayOrder,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		FileKey:         key,
		Body:            file,
	})
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to upload video")
	}

	return response.Created(c, video)
}

// UpdateVideo handles PUT /api/v1/videos/:id
func (h *VideoHandler) UpdateVideo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UpdateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	video, svcErr := h.videoService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch video")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, video.SectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	updated, svcErr := h.videoService.Update(c.Context(), id, req)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to update video")
	}

	return response.SuccessWithMessage(c, "Video updated successfully", updated)
}

// ReorderRequest carries the new position for a video
type ReorderRequest struct {
	DisplayOrder int `json:"display_order" validate:"required,min=1"`
}

// ReorderVideo handles PUT /api/v1/videos/:id/order
func (h *VideoHandler) ReorderVideo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	video, svcErr := h.videoService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch video")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, video.SectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	updated, svcErr := h.videoService.Reorder(c.Context(), id, req.DisplayOrder)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to reorder video")
	}

	return response.SuccessWithMessage(c, "Video reordered successfully", updated)
}

// DeleteVideo handles DELETE /api/v1/videos/:id
func (h *VideoHandler) DeleteVideo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	video, svcErr := h.videoService.GetByID(c.Context(), id)
	if svcErr != nil {
		return common.DomainError(c, svcErr, "Failed to fetch video")
	}

	if _, err := h.authorizer.CanModifySection(c.Context(), user, video.SectionID); err != nil {
		return common.DomainError(c, err, "Failed to authorize request")
	}

	if err := h.videoService.Delete(c.Context(), id); err != nil {
		return common.DomainError(c, err, "Failed to delete video")
	}

	return response.SuccessWithMessage(c, "Video deleted successfully", nil)
}

// MarkWatched handles POST /api/v1/videos/:id/watch
func (h *VideoHandler) MarkWatched(c *fiber.Ctx) error {
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

	if err := h.videoService.MarkWatched(c.Context(), student.ID, id); err != nil {
		return common.DomainError(c, err, "Failed to record watch progress")
	}

	return response.SuccessWithMessage(c, "Video marked as watched", nil)
}

// WatchedVideos handles GET /api/v1/courses/:courseId/watched
func (h *VideoHandler) WatchedVideos(c *fiber.Ctx) error {
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

	ids, err := h.videoService.WatchedVideoIDs(c.Context(), student.ID, courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch watch progress")
	}

	return response.Success(c, fiber.Map{
		"course_id":         courseID,
		"watched_video_ids": ids,
	})
}
