package domain

// Chapter Model
type Chapter struct {
	ID          uint   `gorm:"primaryKey" json:"id"`            // Primary key
	CourseID    uint   `gorm:"not null;index" json:"course_id"` // Owning course
	Title       string `gorm:"size:200;not null" json:"title"`  // Chapter title
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0;index" json:"sort_order"` // Display order within the course
	Timestamps

	Sections []Section `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}
