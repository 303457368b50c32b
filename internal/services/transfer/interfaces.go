package transfer

import (
	"context"

	"monay/internal/models"
	"monay/internal/repositories"
	"monay/internal/services/balance"
)

// Service drives P2P transfers through their state machine. Money only
// moves in ProcessTransfer; creation, cancellation and retries are
// state changes on the transfer row.
type Service interface {
	ValidateRecipient(ctx context.Context, identifier, recipientType string) (*RecipientInfo, error)
	CreateTransfer(ctx context.Context, senderID uint, req CreateRequest) (*models.Transfer, error)
	GetTransfer(ctx context.Context, transferID, requesterID uint) (*models.Transfer, error)
	ProcessTransfer(ctx context.Context, transferID uint) *Result
	UpdateTransferState(ctx context.Context, transferID uint, expected, next string) error
	CancelTransfer(ctx context.Context, transferID, requesterID uint) error
	RetryTransfer(ctx context.Context, transferID, requesterID uint) (*Result, error)
	GetTransferHistory(ctx context.Context, userID uint, filter repositories.TransferHistoryFilter) (*History, error)
}

// Ledger is the slice of the balance service the engine needs. Debits
// and credits run on a caller-owned transaction so both legs of a
// transfer commit or roll back together.
type Ledger interface {
	UpdateBalanceIn(tx repositories.WalletRepository, walletID uint, amount float64, direction string, entry *balance.EntryInfo) (*balance.Change, error)
	UpdateLimitUsage(tx repositories.WalletRepository, walletID uint, amount float64, direction, category string) error
	ValidateTransactionLimits(ctx context.Context, walletID uint, amount float64, category string) (*balance.LimitValidation, error)
	GetOrCreateWallet(ctx context.Context, userID uint, walletType, tier string) (*models.Wallet, error)
	InvalidateBalance(ctx context.Context, walletID uint)
}

// Notifier records transfer notifications. Implementations must never
// fail the transfer; delivery is best-effort after commit.
type Notifier interface {
	TransferCompleted(ctx context.Context, t *models.Transfer)
}
