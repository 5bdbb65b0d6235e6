package domain

// Comment Model. Replies reference their parent comment; deletion is soft so
// reply threads stay intact.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`              // Primary key
	UserID    uint   `gorm:"not null;index" json:"user_id"`     // Author
	CourseID  uint   `gorm:"not null;index" json:"course_id"`   // Commented course
	ParentID  *uint  `gorm:"index" json:"parent_id"`            // Parent comment for replies
	Content   string `gorm:"type:text;not null" json:"content"` // Comment body
	Rating    *int   `json:"rating"`                            // Optional 1-5 course rating
	LikeCount int    `gorm:"default:0" json:"like_count"`
	IsDeleted bool   `gorm:"default:false" json:"is_deleted"`
	Timestamps

	User   *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}
