package domain

// Section Model (a single video within a chapter)
type Section struct {
	ID            uint   `gorm:"primaryKey" json:"id"`             // Primary key
	ChapterID     uint   `gorm:"not null;index" json:"chapter_id"` // Owning chapter
	Title         string `gorm:"size:200;not null" json:"title"`   // Section title
	VideoURL      string `gorm:"size:500" json:"video_url"`        // Stored video path
	VideoDuration int    `gorm:"default:0" json:"video_duration"`  // Duration in seconds
	VideoSize     int64  `gorm:"default:0" json:"video_size"`      // Size in bytes
	VideoFormat   string `gorm:"size:20" json:"video_format"`
	IsFree        bool   `gorm:"default:false" json:"is_free"` // Free preview flag
	SortOrder     int    `gorm:"default:0;index" json:"sort_order"`
	Timestamps
}
