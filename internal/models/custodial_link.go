package models

import "time"

// Custodial link statuses
const (
	LinkStatusActive   = "active"
	LinkStatusInactive = "inactive"
)

// CustodialLink maps an internal wallet to the external custodian's
// wallet and carries the last balance the custodian reported. At most
// one active link exists per user; callers look up before creating.
type CustodialLink struct {
	ID               uint   `gorm:"primarykey"`
	UserID           uint   `gorm:"index;not null"`
	WalletID         uint   `gorm:"not null"`
	CircleWalletID   string `gorm:"index;not null"`
	CircleAddress    string
	Status           string  `gorm:"default:'active'"`
	USDCBalance      float64 `gorm:"default:0"`
	AvailableBalance float64 `gorm:"default:0"`
	PendingBalance   float64 `gorm:"default:0"`
	LastSyncedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
