package services

import (
	"context"

	"github.com/wiliammelo/empoweru/model"
	"gorm.io/gorm"
)

// Authorizer decides whether a user may mutate a course. Admins may mutate
// any course; professors only the courses they own.
type Authorizer struct {
	db *gorm.DB
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// CanModifyCourse returns nil when the user identified by userID may modify
// the course. Admins pass without a professor record. Everyone else must own
// the course through their professor profile.
func (a *Authorizer) CanModifyCourse(ctx context.Context, user *model.User, courseID uint) error {
	var course model.Course
	if err := a.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCourseNotFound
		}
		return err
	}

	if user.Role == model.RoleAdmin {
		return nil
	}

	var professor model.Professor
	err := a.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&professor).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProfessorNotFound
		}
		return err
	}

	if course.ProfessorID != professor.ID {
		return ErrNotCourseOwner
	}

	return nil
}

// CanModifySection resolves the section's course and applies the course rule.
func (a *Authorizer) CanModifySection(ctx context.Context, user *model.User, sectionID uint) (*model.Section, error) {
	var section model.Section
	if err := a.db.WithContext(ctx).First(&section, sectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	if err := a.CanModifyCourse(ctx, user, section.CourseID); err != nil {
		return nil, err
	}

	return &section, nil
}

// StudentForUser resolves the student profile backing a user account.
func (a *Authorizer) StudentForUser(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	err := a.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

// ProfessorForUser resolves the professor profile backing a user account.
func (a *Authorizer) ProfessorForUser(ctx context.Context, userID uint) (*model.Professor, error) {
	var professor model.Professor
	err := a.db.WithContext(ctx).Where("user_id = ?", userID).First(&professor).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	return &professor, nil
}
