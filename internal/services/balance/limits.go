package balance

import (
	"context"
	"fmt"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
)

// ValidateTransactionLimits checks an amount against the wallet's tier
// limits and reports every violated rule, not just the first one.
// Stale periods are rolled over before evaluation so a new day or
// month always starts from zero usage.
func (s *service) ValidateTransactionLimits(ctx context.Context, walletID uint, amount float64, category string) (*LimitValidation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if err := s.CheckAndResetLimits(ctx, walletID); err != nil {
		return nil, err
	}

	limits, err := s.repo.GetLimits(walletID)
	if err != nil {
		if err == repositories.ErrLimitsNotFound {
			// No limit row means nothing to enforce.
			return &LimitValidation{IsValid: true}, nil
		}
		return nil, fmt.Errorf("failed to get limits: %w", err)
	}

	result := &LimitValidation{IsValid: true}

	if limits.PerTransactionMax > 0 && amount > limits.PerTransactionMax {
		result.addError(fmt.Sprintf(
			"amount %.2f exceeds per-transaction maximum of %.2f",
			amount, limits.PerTransactionMax))
	}

	if daily := limits.DailyLimit(category); daily > 0 {
		remaining := daily - limits.DailyUsed(category)
		if amount > remaining {
			result.addError(fmt.Sprintf(
				"amount %.2f exceeds remaining daily %s limit of %.2f",
				amount, category, remaining))
		}
	}

	if monthly := limits.MonthlyLimit(category); monthly > 0 {
		remaining := monthly - limits.MonthlyUsed(category)
		if amount > remaining {
			result.addError(fmt.Sprintf(
				"amount %.2f exceeds remaining monthly %s limit of %.2f",
				amount, category, remaining))
		}
	}

	return result, nil
}

func (v *LimitValidation) addError(msg string) {
	v.IsValid = false
	v.Errors = append(v.Errors, msg)
}

// CreateDefaultLimits seeds a wallet's limit row from the tier cap
// table. Period anchors start at the current UTC day and month.
func (s *service) CreateDefaultLimits(ctx context.Context, walletID, userID uint, tier string) (*models.WalletLimits, error) {
	caps, ok := s.config.Tiers[tier]
	if !ok {
		return nil, ErrUnknownTier
	}

	now := time.Now().UTC()
	limits := &models.WalletLimits{
		WalletID:               walletID,
		UserID:                 userID,
		Tier:                   tier,
		PerTransactionMax:      caps.PerTransactionMax,
		DailySpendingLimit:     caps.DailySpending,
		DailyP2PLimit:          caps.DailyP2P,
		DailyWithdrawalLimit:   caps.DailyWithdrawal,
		MonthlySpendingLimit:   caps.MonthlySpending,
		MonthlyP2PLimit:        caps.MonthlyP2P,
		MonthlyWithdrawalLimit: caps.MonthlyWithdrawal,
		LastDailyReset:         startOfDay(now),
		LastMonthlyReset:       startOfMonth(now),
	}

	if err := s.repo.CreateLimits(limits); err != nil {
		return nil, fmt.Errorf("failed to create limits: %w", err)
	}
	return limits, nil
}

// SetLimits reconfigures a wallet's limits: tier defaults first, then
// any non-zero overrides. Usage counters and period anchors survive a
// reconfiguration.
func (s *service) SetLimits(ctx context.Context, walletID, userID uint, tier string, overrides *TierCaps) (*models.WalletLimits, error) {
	limits, err := s.repo.GetLimits(walletID)
	if err != nil {
		if err != repositories.ErrLimitsNotFound {
			return nil, fmt.Errorf("failed to get limits: %w", err)
		}
		limits, err = s.CreateDefaultLimits(ctx, walletID, userID, tier)
		if err != nil {
			return nil, err
		}
	} else {
		caps, ok := s.config.Tiers[tier]
		if !ok {
			return nil, ErrUnknownTier
		}
		limits.Tier = tier
		limits.PerTransactionMax = caps.PerTransactionMax
		limits.DailySpendingLimit = caps.DailySpending
		limits.DailyP2PLimit = caps.DailyP2P
		limits.DailyWithdrawalLimit = caps.DailyWithdrawal
		limits.MonthlySpendingLimit = caps.MonthlySpending
		limits.MonthlyP2PLimit = caps.MonthlyP2P
		limits.MonthlyWithdrawalLimit = caps.MonthlyWithdrawal
	}

	if overrides != nil {
		applyOverrides(limits, overrides)
	}

	if err := s.repo.SaveLimits(limits); err != nil {
		return nil, fmt.Errorf("failed to save limits: %w", err)
	}
	return limits, nil
}

func applyOverrides(limits *models.WalletLimits, caps *TierCaps) {
	if caps.PerTransactionMax > 0 {
		limits.PerTransactionMax = caps.PerTransactionMax
	}
	if caps.DailySpending > 0 {
		limits.DailySpendingLimit = caps.DailySpending
	}
	if caps.DailyP2P > 0 {
		limits.DailyP2PLimit = caps.DailyP2P
	}
	if caps.DailyWithdrawal > 0 {
		limits.DailyWithdrawalLimit = caps.DailyWithdrawal
	}
	if caps.MonthlySpending > 0 {
		limits.MonthlySpendingLimit = caps.MonthlySpending
	}
	if caps.MonthlyP2P > 0 {
		limits.MonthlyP2PLimit = caps.MonthlyP2P
	}
	if caps.MonthlyWithdrawal > 0 {
		limits.MonthlyWithdrawalLimit = caps.MonthlyWithdrawal
	}
}

// UpdateLimitUsage records consumed allowance on the caller's
// transaction. Only debits consume allowance; credits are a no-op so
// incoming transfers never eat into the recipient's limits.
func (s *service) UpdateLimitUsage(tx repositories.WalletRepository, walletID uint, amount float64, direction, category string) error {
	if direction != DirectionDebit {
		return nil
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	limits, err := tx.GetLimitsForUpdate(walletID)
	if err != nil {
		if err == repositories.ErrLimitsNotFound {
			return nil
		}
		return fmt.Errorf("failed to lock limits: %w", err)
	}

	resetStalePeriods(limits, time.Now().UTC())
	limits.AddUsage(category, amount)

	if err := tx.SaveLimits(limits); err != nil {
		return fmt.Errorf("failed to save limit usage: %w", err)
	}
	return nil
}

// CheckAndResetLimits zeroes usage counters whose period has rolled
// over. Safe to call any number of times; a period is reset at most
// once because the anchors advance with the reset.
func (s *service) CheckAndResetLimits(ctx context.Context, walletID uint) error {
	limits, err := s.repo.GetLimits(walletID)
	if err != nil {
		if err == repositories.ErrLimitsNotFound {
			return nil
		}
		return fmt.Errorf("failed to get limits: %w", err)
	}

	if !resetStalePeriods(limits, time.Now().UTC()) {
		return nil
	}

	return s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		locked, err := tx.GetLimitsForUpdate(walletID)
		if err != nil {
			return err
		}
		// Re-check under the lock so concurrent callers reset once.
		if !resetStalePeriods(locked, time.Now().UTC()) {
			return nil
		}
		return tx.SaveLimits(locked)
	})
}

// resetStalePeriods zeroes counters for expired periods in place and
// reports whether anything changed. Periods are UTC calendar days and
// months.
func resetStalePeriods(limits *models.WalletLimits, now time.Time) bool {
	changed := false

	if day := startOfDay(now); limits.LastDailyReset.Before(day) {
		limits.DailySpendingUsed = 0
		limits.DailyP2PUsed = 0
		limits.DailyWithdrawalUsed = 0
		limits.LastDailyReset = day
		changed = true
	}

	if month := startOfMonth(now); limits.LastMonthlyReset.Before(month) {
		limits.MonthlySpendingUsed = 0
		limits.MonthlyP2PUsed = 0
		limits.MonthlyWithdrawalUsed = 0
		limits.LastMonthlyReset = month
		changed = true
	}

	return changed
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
