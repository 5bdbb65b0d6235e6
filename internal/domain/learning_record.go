package domain

// LearningRecord Model. One row per (user, section), upserted as the user
// watches; progress is a 0-100 percentage.
type LearningRecord struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"not null;uniqueIndex:uniq_user_section" json:"user_id"`
	CourseID     uint `gorm:"not null;index" json:"course_id"`
	SectionID    uint `gorm:"not null;uniqueIndex:uniq_user_section" json:"section_id"`
	Progress     int  `gorm:"default:0" json:"progress"`      // Percentage watched (0-100)
	LastPosition int  `gorm:"default:0" json:"last_position"` // Resume position in seconds
	IsCompleted  bool `gorm:"default:false" json:"is_completed"`
	LearningTime int  `gorm:"default:0" json:"learning_time"` // Accumulated seconds
	Timestamps

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course  *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Section *Section `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
}
