package models

import "time"

// Ledger entry directions
const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

// Ledger entry statuses
const (
	EntryStatusPending   = "pending"
	EntryStatusCompleted = "completed"
)

// Reference types linking entries to their originating operation.
const (
	ReferenceTypeP2PTransfer = "p2p_transfer"
	ReferenceTypeAdjustment  = "adjustment"
)

// LedgerEntry records one side of a balance mutation. Every committed
// debit or credit produces exactly one entry; pending entries feed the
// wallet's pending debit/credit figures.
type LedgerEntry struct {
	ID            uint   `gorm:"primarykey"`
	WalletID      uint   `gorm:"index;not null"`
	UserID        uint   `gorm:"index;not null"`
	Type          string `gorm:"not null"`
	Amount        float64
	Currency      string `gorm:"default:'USD'"`
	Status        string `gorm:"default:'completed'"`
	Description   string
	ReferenceID   string `gorm:"index"`
	ReferenceType string
	Metadata      JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
