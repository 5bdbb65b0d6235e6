package domain

import "time"

// TransactionType enumerates the kinds of balance change.
type TransactionType string

const (
	TxRecharge TransactionType = "RECHARGE"  // User tops up their own wallet
	TxPurchase TransactionType = "PURCHASE"  // Course purchase debit
	TxRefund   TransactionType = "REFUND"    // Refund credit
	TxAdminAdd TransactionType = "ADMIN_ADD" // Administrator adjustment (either sign)
)

// Transaction Model. Append-only record of one balance change; rows are
// created atomically with the wallet mutation they document and never
// updated or deleted. Invariant: BalanceAfter = BalanceBefore + Amount.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                              // Primary key
	WalletID      uint            `gorm:"not null;index" json:"wallet_id"`                   // Wallet the change applies to
	UserID        uint            `gorm:"not null;index" json:"user_id"`                     // Wallet owner
	Type          TransactionType `gorm:"size:20;not null" json:"type"`                      // Kind of change
	Amount        float64         `gorm:"type:decimal(10,2);not null" json:"amount"`         // Signed: credit > 0, debit < 0
	BalanceBefore float64         `gorm:"type:decimal(10,2);not null" json:"balance_before"` // Snapshot before the change
	BalanceAfter  float64         `gorm:"type:decimal(10,2);not null" json:"balance_after"`  // Snapshot after the change
	Description   string          `gorm:"type:text" json:"description"`
	CourseID      *uint           `json:"course_id"` // Set for PURCHASE rows
	CreatedAt     time.Time       `json:"created_at"`

	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL" json:"-"`
}
