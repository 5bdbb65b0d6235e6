package domain

// SystemSetting Model. Free-form key/value store; values are JSON-encoded
// strings. IsPublic rows are served without authentication.
type SystemSetting struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Key         string `gorm:"size:100;unique;not null;index" json:"key"` // Setting key
	Value       string `gorm:"type:text" json:"value"`                    // JSON-encoded value
	Description string `gorm:"size:255" json:"description"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"` // Served on the public endpoint
	Timestamps
}
