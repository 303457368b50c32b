// Package balance implements the wallet balance service: effective
// balance reads through a short-TTL cache, transactional debits and
// credits, and tiered spending limit enforcement.
package balance

import (
	"context"
	"fmt"
	"math"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
)

const defaultCacheTTL = 5 * time.Minute

type service struct {
	repo    repositories.WalletRepository
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates a new balance service.
func NewService(repo repositories.WalletRepository, cache Cache, config Config, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "USD"
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = defaultCacheTTL
	}
	if config.Tiers == nil {
		config.Tiers = DefaultTiers()
	}

	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

// GetBalance returns the effective balance for a wallet owned by
// ownerID. Reads go through the cache; misses load the wallet row and
// the unsettled ledger totals, then repopulate the cache.
func (s *service) GetBalance(ctx context.Context, walletID, ownerID uint) (*Balance, error) {
	key := s.cache.BalanceKey(walletID)

	var cached Balance
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		s.metrics.RecordCacheHit(key)
		return &cached, nil
	}
	s.metrics.RecordCacheMiss(key)

	wallet, err := s.repo.GetByIDForOwner(walletID, ownerID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	pending, err := s.repo.GetPendingTotals(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending totals: %w", err)
	}

	result := &Balance{
		Available: round(wallet.Balance - pending.Debit),
		Pending:   round(pending.Debit + pending.Credit),
		Reserved:  wallet.ReservedBalance,
		Currency:  wallet.Currency,
	}

	if err := s.cache.SetWithTTL(ctx, key, result, s.config.CacheTTL); err != nil {
		// Cache population failures never fail the read.
		s.metrics.RecordError("get_balance", "cache_set")
	}

	return result, nil
}

// UpdateBalance applies one credit or debit inside its own scoped
// transaction and invalidates the cache entry after commit.
func (s *service) UpdateBalance(ctx context.Context, walletID uint, amount float64, direction string) (*Change, error) {
	var change *Change
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		var err error
		change, err = s.UpdateBalanceIn(tx, walletID, amount, direction, &EntryInfo{
			Description:   fmt.Sprintf("Wallet %s", direction),
			ReferenceType: models.ReferenceTypeAdjustment,
		})
		return err
	})
	if err != nil {
		s.metrics.RecordError("update_balance", err.Error())
		return nil, err
	}

	s.InvalidateBalance(ctx, walletID)
	s.metrics.RecordTransaction(direction, amount)
	return change, nil
}

// UpdateBalanceIn performs the mutation on the caller's transaction.
// The wallet row is re-read under a row lock inside the transaction so
// concurrent callers cannot base their writes on a stale balance.
func (s *service) UpdateBalanceIn(tx repositories.WalletRepository, walletID uint, amount float64, direction string, entry *EntryInfo) (*Change, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if direction != DirectionCredit && direction != DirectionDebit {
		return nil, ErrInvalidDirection
	}

	wallet, err := tx.GetByIDForUpdate(walletID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.Status != models.WalletStatusActive {
		return nil, ErrWalletNotActive
	}

	previous := wallet.Balance
	switch direction {
	case DirectionDebit:
		if wallet.AvailableBalance() < amount {
			return nil, ErrInsufficientBalance
		}
		wallet.Balance = round(wallet.Balance - amount)
	case DirectionCredit:
		wallet.Balance = round(wallet.Balance + amount)
	}

	if err := tx.Update(wallet); err != nil {
		return nil, fmt.Errorf("failed to persist balance: %w", err)
	}

	if entry != nil {
		userID := entry.UserID
		if userID == 0 {
			userID = wallet.UserID
		}
		ledgerEntry := &models.LedgerEntry{
			WalletID:      walletID,
			UserID:        userID,
			Type:          direction,
			Amount:        amount,
			Currency:      wallet.Currency,
			Status:        models.EntryStatusCompleted,
			Description:   entry.Description,
			ReferenceID:   entry.ReferenceID,
			ReferenceType: entry.ReferenceType,
			Metadata:      models.JSON(entry.Metadata),
		}
		if err := tx.CreateLedgerEntry(ledgerEntry); err != nil {
			return nil, fmt.Errorf("failed to record ledger entry: %w", err)
		}
	}

	s.metrics.RecordBalanceChange(walletID, previous, wallet.Balance)
	return &Change{PreviousBalance: previous, NewBalance: wallet.Balance}, nil
}

// GetOrCreateWallet returns the user's wallet of the given type,
// lazily creating a zero-balance one (with tier default limits) when
// absent.
func (s *service) GetOrCreateWallet(ctx context.Context, userID uint, walletType, tier string) (*models.Wallet, error) {
	wallet, err := s.repo.GetByUserIDAndType(userID, walletType)
	if err == nil {
		return wallet, nil
	}
	if err != repositories.ErrWalletNotFound {
		return nil, fmt.Errorf("failed to look up wallet: %w", err)
	}

	wallet = &models.Wallet{
		UserID:   userID,
		Balance:  0,
		Currency: s.config.DefaultCurrency,
		Status:   models.WalletStatusActive,
		Type:     walletType,
	}
	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if tier == "" {
		tier = models.TierBasic
	}
	if _, err := s.CreateDefaultLimits(ctx, wallet.ID, userID, tier); err != nil {
		return nil, fmt.Errorf("failed to seed limits: %w", err)
	}

	return wallet, nil
}

// InvalidateBalance drops the cached balance for a wallet. Invoked
// synchronously after every committed mutation.
func (s *service) InvalidateBalance(ctx context.Context, walletID uint) {
	if err := s.cache.Delete(ctx, s.cache.BalanceKey(walletID)); err != nil {
		s.metrics.RecordError("invalidate_balance", "cache_delete")
	}
}

// round keeps balances at two decimal places.
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
