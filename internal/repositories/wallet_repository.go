package repositories

import (
	"context"
	"errors"

	"monay/internal/models"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrLimitsNotFound    = errors.New("wallet limits not found")
	ErrDuplicateWallet   = errors.New("wallet already exists")
	ErrTransactionFailed = errors.New("transaction failed")
)

// PendingTotals aggregates the unsettled ledger entries for a wallet.
type PendingTotals struct {
	Debit  float64
	Credit float64
}

// WalletRepository defines the balance store operations. The same
// interface doubles as the transaction-scoped handle passed to
// ExecuteInTransaction closures, so a multi-step mutation runs every
// statement on one database transaction.
type WalletRepository interface {
	// Wallet rows
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByIDForOwner(id, ownerID uint) (*models.Wallet, error)
	GetByIDForUpdate(id uint) (*models.Wallet, error)
	GetByUserIDAndType(userID uint, walletType string) (*models.Wallet, error)
	Update(wallet *models.Wallet) error
	UpdateStatus(walletID uint, status, reason string) error

	// Ledger entries
	CreateLedgerEntry(entry *models.LedgerEntry) error
	GetPendingTotals(ctx context.Context, walletID uint) (*PendingTotals, error)

	// Limits
	GetLimits(walletID uint) (*models.WalletLimits, error)
	GetLimitsForUpdate(walletID uint) (*models.WalletLimits, error)
	CreateLimits(limits *models.WalletLimits) error
	SaveLimits(limits *models.WalletLimits) error

	// Transfers returns a TransferRepository bound to the same
	// connection, so a transfer status change can ride the same
	// database transaction as the balance legs it settles.
	Transfers() TransferRepository

	// ExecuteInTransaction runs fn against a repository bound to a
	// single database transaction; any error rolls everything back.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
