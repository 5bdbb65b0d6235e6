package domain

import "time"

// CourseEnrollment Model. One row per (user, course) pair, enforced by a
// unique composite index; rows are created by self-enroll, admin grant, or
// purchase and are never updated afterwards.
type CourseEnrollment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`                                         // Primary key
	UserID         uint       `gorm:"not null;uniqueIndex:uniq_user_course" json:"user_id"`         // Enrolled user
	CourseID       uint       `gorm:"not null;uniqueIndex:uniq_user_course;index" json:"course_id"` // Course
	EnrollmentDate time.Time  `gorm:"autoCreateTime" json:"enrollment_date"`                        // When access was granted
	ExpiryDate     *time.Time `json:"expiry_date"`                                                  // Optional expiry, not enforced
	IsActive       bool       `gorm:"default:true" json:"is_active"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
