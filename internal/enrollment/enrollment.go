package enrollment

import (
	"errors"

	"course_platform/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Domain errors surfaced to handlers.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrNotFound           = errors.New("enrollment not found")
)

// IsEnrolled reports whether an enrollment row exists for (userID, courseID).
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&domain.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Enroll creates the enrollment row and bumps the course's cached
// student_count. Every path that grants course access (self-enroll, admin
// grant, purchase) goes through here so the counter can never drift from the
// join table. Callers run it inside a transaction when combining it with
// other effects.
func Enroll(tx *gorm.DB, userID uint, course *domain.Course) (*domain.CourseEnrollment, error) {
	exists, err := IsEnrolled(tx, userID, course.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}
	e := domain.CourseEnrollment{UserID: userID, CourseID: course.ID, IsActive: true}
	if err := tx.Create(&e).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Course{}).Where("id = ?", course.ID).
		Update("student_count", gorm.Expr("student_count + 1")).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// SelfEnroll is the free enrollment path: the course must exist and be
// published. Runs as one atomic unit.
func SelfEnroll(db *gorm.DB, userID, courseID uint) (*domain.CourseEnrollment, error) {
	var out *domain.CourseEnrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var course domain.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		if course.Status != domain.CoursePublished {
			return ErrCourseNotPublished
		}
		e, err := Enroll(tx, userID, &course)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// Remove deletes an enrollment and decrements the course's cached
// student_count, clamped so the counter never goes negative.
func Remove(db *gorm.DB, enrollmentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var e domain.CourseEnrollment
		if err := tx.First(&e, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&e).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Course{}).
			Where("id = ? AND student_count > 0", e.CourseID).
			Update("student_count", gorm.Expr("student_count - 1")).Error
	})
}
