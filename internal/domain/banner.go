package domain

// Banner Model (home page carousel entry)
type Banner struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"size:200;not null" json:"title"`
	ImageURL  string `gorm:"size:255;not null" json:"image_url"`
	LinkURL   string `gorm:"size:500" json:"link_url"`
	SortOrder int    `gorm:"default:0;index" json:"sort_order"`
	IsActive  bool   `gorm:"default:true;index" json:"is_active"`
	Timestamps
}
