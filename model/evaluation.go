package model

import "time"

// EvaluationActivity is a quiz attached to exactly one section (the section
// holds the reference). Questions and options are created and deleted with it.
type EvaluationActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:EvaluationActivityID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question carries exactly five options, exactly one of them correct.
// The structural rules are enforced at the request boundary.
type Question struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	EvaluationActivityID uint      `gorm:"not null;index" json:"evaluation_activity_id"`
	Text                 string    `gorm:"type:varchar(255);not null" json:"text"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

type QuestionOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"type:varchar(255);not null" json:"text"`
	Correct    bool   `gorm:"not null" json:"correct"`
}

// EvaluationActivityResult stores one row per (evaluation, student) pair.
// Resubmissions keep the best grade; the unique index backs that contract.
type EvaluationActivityResult struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	EvaluationActivityID uint      `gorm:"not null;uniqueIndex:idx_result_evaluation_student" json:"evaluation_activity_id"`
	StudentID            uint      `gorm:"not null;uniqueIndex:idx_result_evaluation_student;index" json:"student_id"`
	CourseID             uint      `gorm:"not null;index" json:"course_id"`
	Grade                float64   `gorm:"not null" json:"grade"`
}
