package domain

// Wallet Model. Exactly one wallet per user, created lazily on first access.
type Wallet struct {
	ID      uint    `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID  uint    `gorm:"uniqueIndex;not null" json:"user_id"`                  // Owning user
	Balance float64 `gorm:"type:decimal(10,2);not null;default:0" json:"balance"` // Spendable balance
	Timestamps
}
