package domain

import "time"

// Collection Model (a user bookmarking a course). Unique per (user, course).
type Collection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_user_collection" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:uniq_user_collection;index" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
