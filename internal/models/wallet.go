package models

import (
	"time"
)

// Wallet statuses
const (
	WalletStatusActive   = "active"
	WalletStatusInactive = "inactive"
	WalletStatusFrozen   = "frozen"
)

// Wallet types
const (
	WalletTypePrimary       = "primary"
	WalletTypeSecondary     = "secondary"
	WalletTypeInvoice       = "invoice"
	WalletTypeCustodialLink = "custodial-link"
)

// Wallet is the system-of-record row for a user's balance.
// Balance fields are only ever mutated inside a scoped transaction
// by the balance service.
type Wallet struct {
	ID              uint    `gorm:"primarykey"`
	UserID          uint    `gorm:"index;not null"`
	Balance         float64 `gorm:"default:0"`
	PendingDebit    float64 `gorm:"default:0"`
	PendingCredit   float64 `gorm:"default:0"`
	ReservedBalance float64 `gorm:"default:0"`
	Currency        string  `gorm:"default:'USD'"`
	Status          string  `gorm:"default:'active'"`
	Type            string  `gorm:"default:'primary'"`
	StatusReason    string  `gorm:"default:''"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AvailableBalance is the amount safely spendable now.
func (w *Wallet) AvailableBalance() float64 {
	return w.Balance - w.PendingDebit
}

// TotalBalance includes credits that have not settled yet.
func (w *Wallet) TotalBalance() float64 {
	return w.Balance + w.PendingCredit
}
