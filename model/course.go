package model

import (
	"time"

	"gorm.io/datatypes"
)

// Course is the top of the catalog hierarchy. Sections (and through them
// videos and evaluation activities) are owned by the course and removed
// with it; enrollment and result rows are historical and survive.
type Course struct {
	ID          uint                       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	Title       string                     `gorm:"not null;index" json:"title"`
	Description string                     `gorm:"type:text" json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	ProfessorID uint                       `gorm:"not null;index" json:"professor_id"`

	Professor   Professor    `gorm:"foreignKey:ProfessorID" json:"professor,omitempty"`
	Sections    []Section    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Section groups videos inside a course and may carry at most one
// evaluation activity.
type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:varchar(1000)" json:"description"`

	EvaluationActivityID *uint `gorm:"uniqueIndex" json:"evaluation_activity_id,omitempty"`

	Course             Course              `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Videos             []Video             `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	EvaluationActivity *EvaluationActivity `gorm:"foreignKey:EvaluationActivityID" json:"evaluation_activity,omitempty"`
}

// Video belongs to a section. DisplayOrder values are unique and contiguous
// from 1 within a section; the video service maintains that invariant on
// insert and delete.
type Video struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	SectionID       uint      `gorm:"not null;index" json:"section_id"`
	Title           string    `gorm:"not null" json:"title"`
	URL             string    `gorm:"type:varchar(512)" json:"url"`
	DurationSeconds float64   `json:"duration_seconds"`
	DisplayOrder    int       `gorm:"not null" json:"display_order"`

	Section Section `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
}

// Enrollment is the student/course join row. Its presence is the single
// authority on "is this student enrolled".
type Enrollment struct {
	StudentID  uint      `gorm:"primaryKey" json:"student_id"`
	CourseID   uint      `gorm:"primaryKey" json:"course_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`

	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the join table name the API has always used.
func (Enrollment) TableName() string { return "enrollments" }
