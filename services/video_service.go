package services

import (
	"context"
	"fmt"
	"io"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// FileUploader stores a video file and returns its public URL.
// The production implementation uploads to DigitalOcean Spaces.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Accepted video content types
var allowedVideoTypes = map[string]bool{
	"video/mp4": true,
	"video/mkv": true,
}

// VideoService handles section videos, their ordering and watch progress
type VideoService struct {
	db       *gorm.DB
	uploader FileUploader
}

// NewVideoService creates a new video service
func NewVideoService(db *gorm.DB, uploader FileUploader) *VideoService {
	return &VideoService{db: db, uploader: uploader}
}

// UploadVideoRequest represents the request to add a video to a section
type UploadVideoRequest struct {
	Title           string    `json:"title" validate:"required,min=1,max=255"`
	DurationSeconds float64   `json:"duration_seconds" validate:"gte=0"`
	DisplayOrder    int       `json:"display_order" validate:"required,min=1"`
	ContentType     string    `json:"-"`
	FileKey         string    `json:"-"`
	Body            io.Reader `json:"-"`
}

// UpdateVideoRequest represents the request to update video metadata
type UpdateVideoRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=255"`
	DurationSeconds *float64 `json:"duration_seconds" validate:"omitempty,gte=0"`
}

// Upload stores the file, then inserts the video at the requested position.
// Videos in a section are numbered 1..n with no gaps; inserting at position k
// shifts every video at k or later one slot to the right. Valid positions are
// 1 through n+1.
func (s *VideoService) Upload(ctx context.Context, sectionID uint, req UploadVideoRequest) (*model.Video, error) {
	var section model.Section
	if err := s.db.WithContext(ctx).First(&section, sectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	if !allowedVideoTypes[req.ContentType] {
		return nil, ErrInvalidFileType
	}

	url, err := s.uploader.Upload(ctx, req.FileKey, req.ContentType, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video file: %w", err)
	}

	var video *model.Video
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Video{}).
			Where("section_id = ?", sectionID).
			Count(&count).Error; err != nil {
			return err
		}

		if req.DisplayOrder < 1 || req.DisplayOrder > int(count)+1 {
			return ErrInvalidDisplayOrder
		}

		if err := tx.Model(&model.Video{}).
			Where("section_id = ? AND display_order >= ?", sectionID, req.DisplayOrder).
			UpdateColumn("display_order", gorm.Expr("display_order + ?", 1)).
			Error; err != nil {
			return err
		}

		video = &model.Video{
			SectionID:       sectionID,
			Title:           req.Title,
			URL:             url,
			DurationSeconds: req.DurationSeconds,
			DisplayOrder:    req.DisplayOrder,
		}
		return tx.Create(video).Error
	})
	if err != nil {
		return nil, err
	}

	return video, nil
}

// GetByID returns a video
func (s *VideoService) GetByID(ctx context.Context, id uint) (*model.Video, error) {
	var video model.Video
	if err := s.db.WithContext(ctx).First(&video, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Update applies partial metadata changes to a video
func (s *VideoService) Update(ctx context.Context, id uint, req UpdateVideoRequest) (*model.Video, error) {
	video, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.DurationSeconds != nil {
		updates["duration_seconds"] = *req.DurationSeconds
	}

	if len(updates) == 0 {
		return video, nil
	}

	if err := s.db.WithContext(ctx).Model(video).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return video, nil
}

// Reorder moves a video to a new position within its section. The remaining
// videos shift to keep the 1..n numbering contiguous.
func (s *VideoService) Reorder(ctx context.Context, id uint, newOrder int) (*model.Video, error) {
	var video *model.Video
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Video
		if err := tx.First(&v, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrVideoNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Video{}).
			Where("section_id = ?", v.SectionID).
			Count(&count).Error; err != nil {
			return err
		}

		if newOrder < 1 || newOrder > int(count) {
			return ErrInvalidDisplayOrder
		}
		if newOrder == v.DisplayOrder {
			video = &v
			return nil
		}

		if newOrder < v.DisplayOrder {
			// Moving up: shift the range [newOrder, old) down the list.
			if err := tx.Model(&model.Video{}).
				Where("section_id = ? AND display_order >= ? AND display_order < ?",
					v.SectionID, newOrder, v.DisplayOrder).
				UpdateColumn("display_order", gorm.Expr("display_order + ?", 1)).
				Error; err != nil {
				return err
			}
		} else {
			// Moving down: shift the range (old, newOrder] up the list.
			if err := tx.Model(&model.Video{}).
				Where("section_id = ? AND display_order > ? AND display_order <= ?",
					v.SectionID, v.DisplayOrder, newOrder).
				UpdateColumn("display_order", gorm.Expr("display_order - ?", 1)).
				Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&v).UpdateColumn("display_order", newOrder).Error; err != nil {
			return err
		}
		v.DisplayOrder = newOrder
		video = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

// Delete removes a video and closes the gap it leaves in the ordering
func (s *VideoService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video model.Video
		if err := tx.First(&video, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrVideoNotFound
			}
			return err
		}

		if err := tx.Where("video_id = ?", id).
			Delete(&model.VideoWatched{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.Video{}, id).Error; err != nil {
			return err
		}

		return tx.Model(&model.Video{}).
			Where("section_id = ? AND display_order > ?", video.SectionID, video.DisplayOrder).
			UpdateColumn("display_order", gorm.Expr("display_order - ?", 1)).
			Error
	})
}

// MarkWatched records that the student has watched the video. The log is
// append-only; duplicate rows are tolerated because watched status is an
// existence check.
func (s *VideoService) MarkWatched(ctx context.Context, studentID, videoID uint) error {
	var video model.Video
	if err := s.db.WithContext(ctx).First(&video, videoID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrVideoNotFound
		}
		return err
	}

	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrStudentNotFound
		}
		return err
	}

	watched := model.VideoWatched{
		VideoID:   videoID,
		StudentID: studentID,
	}
	return s.db.WithContext(ctx).Create(&watched).Error
}

// WatchedVideoIDs returns the IDs of the course's videos the student has watched
func (s *VideoService) WatchedVideoIDs(ctx context.Context, studentID, courseID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&model.VideoWatched{}).
		Distinct("video_watcheds.video_id").
		Joins("JOIN videos ON videos.id = video_watcheds.video_id").
		Joins("JOIN sections ON sections.id = videos.section_id").
		Where("video_watcheds.student_id = ? AND sections.course_id = ?", studentID, courseID).
		Pluck("video_watcheds.video_id", &ids).
		Error
	return ids, err
}
