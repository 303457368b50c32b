package transfer

import (
	"time"

	"monay/internal/models"
)

// Recipient identifier types
const (
	RecipientTypeAuto     = "auto"
	RecipientTypeEmail    = "email"
	RecipientTypePhone    = "phone"
	RecipientTypeUsername = "username"
	RecipientTypeID       = "id"
)

// ScheduledTransferFee is the flat fee charged on scheduled transfers.
// Instant transfers are free.
const ScheduledTransferFee = 0.50

// RecipientInfo is the resolved recipient of a transfer.
type RecipientInfo struct {
	UserID        uint   `json:"user_id"`
	WalletID      uint   `json:"wallet_id"`
	Name          string `json:"name"`
	Identifier    string `json:"identifier"`
	WalletCreated bool   `json:"wallet_created"`
}

// CreateRequest describes a transfer to create.
type CreateRequest struct {
	RecipientIdentifier string     `json:"recipient_identifier"`
	RecipientType       string     `json:"recipient_type"`
	Amount              float64    `json:"amount"`
	Currency            string     `json:"currency"`
	Note                string     `json:"note"`
	Category            string     `json:"category"`
	ScheduledDate       *time.Time `json:"scheduled_date"`
}

// Result is the outcome of a processing attempt. Failures come back as
// a populated Error, never as a panic, so a scheduler can inspect and
// retry.
type Result struct {
	Success     bool
	TransferID  uint
	TransferRef string
	Error       error
}

// HistoryItem is one transfer seen from the requesting user's side.
type HistoryItem struct {
	TransferRef    string     `json:"transfer_ref"`
	Direction      string     `json:"direction"`
	CounterpartyID uint       `json:"counterparty_id"`
	Amount         float64    `json:"amount"`
	FeeAmount      float64    `json:"fee_amount"`
	TotalAmount    float64    `json:"total_amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	Note           string     `json:"note,omitempty"`
	Category       string     `json:"category,omitempty"`
	InitiatedAt    time.Time  `json:"initiated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	FailedAt       *time.Time `json:"failed_at,omitempty"`
}

// History directions
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// History is a filtered page of a user's transfers.
type History struct {
	Items []HistoryItem `json:"items"`
	Total int64         `json:"total"`
}

func historyItem(t *models.Transfer, userID uint) HistoryItem {
	item := HistoryItem{
		TransferRef: t.TransferRef,
		Amount:      t.Amount,
		FeeAmount:   t.FeeAmount,
		TotalAmount: t.TotalAmount,
		Currency:    t.Currency,
		Status:      t.Status,
		Note:        t.Note,
		Category:    t.Category,
		InitiatedAt: t.InitiatedAt,
		CompletedAt: t.CompletedAt,
		FailedAt:    t.FailedAt,
	}
	if t.SenderID == userID {
		item.Direction = DirectionSent
		item.CounterpartyID = t.RecipientID
	} else {
		item.Direction = DirectionReceived
		item.CounterpartyID = t.SenderID
	}
	return item
}
