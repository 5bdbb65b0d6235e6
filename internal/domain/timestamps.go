package domain

import "time"

// Timestamps is embedded in every persisted model that tracks both times.
// GORM fills the fields automatically on create and update.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"` // Creation time
	UpdatedAt time.Time `json:"updated_at"` // Last update time
}
