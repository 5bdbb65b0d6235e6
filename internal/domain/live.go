package domain

import "time"

// LiveStatus enumerates the three states of a live session. Transitions are
// strictly forward: SCHEDULED -> LIVING -> ENDED.
type LiveStatus string

const (
	LiveScheduled LiveStatus = "SCHEDULED"
	LiveLiving    LiveStatus = "LIVING"
	LiveEnded     LiveStatus = "ENDED"
)

// Live Model. PushURL/PullURL are opaque stream endpoints generated at
// creation; the media transport itself is an external collaborator.
type Live struct {
	ID            uint       `gorm:"primaryKey" json:"id"`           // Primary key
	Title         string     `gorm:"size:200;not null" json:"title"` // Session title
	Description   string     `gorm:"type:text" json:"description"`
	TeacherID     uint       `gorm:"not null;index" json:"teacher_id"` // Owning teacher
	CourseID      *uint      `json:"course_id"`                        // Optional linked course
	CoverImage    string     `gorm:"size:500" json:"cover_image"`
	Status        LiveStatus `gorm:"size:20;default:SCHEDULED;index" json:"status"`
	PushURL       string     `gorm:"size:500" json:"push_url,omitempty"` // Publisher endpoint, owner/admin only
	PullURL       string     `gorm:"size:500" json:"pull_url"`           // Viewer endpoint
	ViewerCount   int        `gorm:"default:0" json:"viewer_count"`
	ScheduledTime *time.Time `json:"scheduled_time"` // Planned start
	StartTime     *time.Time `json:"start_time"`     // Actual start, set by the LIVING transition
	EndTime       *time.Time `json:"end_time"`       // Set by the ENDED transition
	Timestamps

	Teacher *User   `gorm:"foreignKey:TeacherID;constraint:OnDelete:RESTRICT" json:"-"`
	Course  *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
}
