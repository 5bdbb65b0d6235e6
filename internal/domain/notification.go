package domain

import "time"

// NotificationType enumerates the origin of a notification.
type NotificationType string

const (
	NotifySystem  NotificationType = "SYSTEM"
	NotifyCourse  NotificationType = "COURSE"
	NotifyLive    NotificationType = "LIVE"
	NotifyComment NotificationType = "COMMENT"
)

// ValidNotificationType reports whether s names a known notification type.
func ValidNotificationType(s string) bool {
	switch NotificationType(s) {
	case NotifySystem, NotifyCourse, NotifyLive, NotifyComment:
		return true
	}
	return false
}

// Notification Model. One row per (user, event); read state is tracked on the
// row itself and ReadAt is set once, by the first successful mark-read.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`          // Primary key
	UserID    uint             `gorm:"not null;index" json:"user_id"` // Recipient
	Type      NotificationType `gorm:"size:20;not null" json:"type"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Content   string           `gorm:"type:text" json:"content"`
	LinkURL   string           `gorm:"size:500" json:"link_url"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	SenderID  *uint            `json:"sender_id"` // Optional sender, nulled if the sender is deleted
	CourseID  *uint            `json:"course_id"`
	LiveID    *uint            `json:"live_id"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
	ReadAt    *time.Time       `json:"read_at"` // Set once on first mark-read

	Sender *User   `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
	Live   *Live   `gorm:"foreignKey:LiveID;constraint:OnDelete:SET NULL" json:"-"`
}
