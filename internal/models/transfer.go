package models

import "time"

// Transfer statuses, ordered along the state machine.
const (
	TransferStatusPending    = "pending"
	TransferStatusValidating = "validating"
	TransferStatusProcessing = "processing"
	TransferStatusCompleted  = "completed"
	TransferStatusFailed     = "failed"
	TransferStatusCancelled  = "cancelled"
)

// DefaultMaxRetries is the retry budget for a failed transfer.
const DefaultMaxRetries = 3

// Transfer is a P2P transfer driven through its state machine by the
// transfer engine. The row is the source of truth for the transfer's
// lifecycle; wallet balances are mutated separately by the balance
// service when the transfer is processed.
type Transfer struct {
	ID                uint   `gorm:"primarykey"`
	TransferRef       string `gorm:"uniqueIndex;not null"`
	SenderID          uint   `gorm:"index;not null"`
	SenderWalletID    uint   `gorm:"not null"`
	RecipientID       uint   `gorm:"index;not null"`
	RecipientWalletID uint   `gorm:"not null"`
	Amount            float64
	FeeAmount         float64 `gorm:"default:0"`
	TotalAmount       float64
	Currency          string `gorm:"default:'USD'"`
	Note              string
	Category          string `gorm:"default:'personal'"`
	Status            string `gorm:"index;default:'pending'"`
	RetryCount        int    `gorm:"default:0"`
	MaxRetries        int    `gorm:"default:3"`
	FailureReason     string
	ScheduledDate     *time.Time
	InitiatedAt       time.Time
	CompletedAt       *time.Time
	FailedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTerminal reports whether the transfer can no longer change state,
// retry budget aside.
func (t *Transfer) IsTerminal() bool {
	switch t.Status {
	case TransferStatusCompleted, TransferStatusCancelled:
		return true
	case TransferStatusFailed:
		return t.RetryCount >= t.MaxRetries
	}
	return false
}
