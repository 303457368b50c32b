package repositories

import (
	"context"
	"errors"
	"time"

	"monay/internal/models"
)

var (
	ErrTransferNotFound       = errors.New("transfer not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// TransferHistoryFilter narrows a transfer history query.
type TransferHistoryFilter struct {
	Limit     int
	Offset    int
	Type      string // "sent", "received", "all"
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// TransferRepository owns the p2p_transfers table. State changes go
// through UpdateStatusCAS so concurrent transitions cannot both win.
type TransferRepository interface {
	Create(transfer *models.Transfer) error
	GetByID(id uint) (*models.Transfer, error)
	GetByRef(ref string) (*models.Transfer, error)

	// UpdateStatusCAS advances the status only when the row currently
	// holds expected; otherwise ErrInvalidStateTransition.
	UpdateStatusCAS(id uint, expected, next string) error

	SetFailureReason(id uint, reason string) error

	// ClaimRetry moves a failed transfer back to processing and consumes
	// one unit of retry budget in the same guarded update; a lost race
	// or an exhausted budget claims nothing.
	ClaimRetry(id uint) error
	History(ctx context.Context, userID uint, filter TransferHistoryFilter) ([]models.Transfer, int64, error)
}
