package model

import "time"

// VideoWatched is an append-only fact: the student has watched the video.
// Duplicates are tolerated; watched status is an existence check.
type VideoWatched struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	VideoID   uint      `gorm:"not null;index:idx_watched_video_student" json:"video_id"`
	StudentID uint      `gorm:"not null;index:idx_watched_video_student;index" json:"student_id"`
}
