package balance

import (
	"context"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
)

// Service is the wallet balance ledger. It is the only component that
// mutates wallet balances; everything else goes through it.
type Service interface {
	// Balance operations
	GetBalance(ctx context.Context, walletID, ownerID uint) (*Balance, error)
	UpdateBalance(ctx context.Context, walletID uint, amount float64, direction string) (*Change, error)

	// UpdateBalanceIn applies a mutation on an already-open
	// transaction-scoped repository, so a caller can combine several
	// legs into one atomic unit. The caller owns cache invalidation
	// after its transaction commits.
	UpdateBalanceIn(tx repositories.WalletRepository, walletID uint, amount float64, direction string, entry *EntryInfo) (*Change, error)

	// Limit operations
	ValidateTransactionLimits(ctx context.Context, walletID uint, amount float64, category string) (*LimitValidation, error)
	CreateDefaultLimits(ctx context.Context, walletID, userID uint, tier string) (*models.WalletLimits, error)
	SetLimits(ctx context.Context, walletID, userID uint, tier string, overrides *TierCaps) (*models.WalletLimits, error)
	UpdateLimitUsage(tx repositories.WalletRepository, walletID uint, amount float64, direction, category string) error
	CheckAndResetLimits(ctx context.Context, walletID uint) error

	// Wallet management
	GetOrCreateWallet(ctx context.Context, userID uint, walletType, tier string) (*models.Wallet, error)
	InvalidateBalance(ctx context.Context, walletID uint)
}

// Cache is the read-through balance cache in front of the store.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	BalanceKey(walletID uint) string
}

// MetricsCollector receives balance service metrics.
type MetricsCollector interface {
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
	RecordBalanceChange(walletID uint, oldBalance, newBalance float64)
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
}
