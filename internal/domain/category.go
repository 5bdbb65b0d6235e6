package domain

// Category Model
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`          // Primary key
	Name        string `gorm:"size:100;not null" json:"name"` // Category name
	ParentID    *uint  `gorm:"index" json:"parent_id"`        // Optional parent category
	SortOrder   int    `gorm:"default:0;index" json:"sort_order"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	Timestamps

	Parent *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"-"`
}
