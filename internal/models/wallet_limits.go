package models

import "time"

// Limit tiers
const (
	TierBasic    = "basic"
	TierVerified = "verified"
	TierPremium  = "premium"
)

// Limit categories
const (
	LimitCategorySpending   = "spending"
	LimitCategoryP2P        = "p2p"
	LimitCategoryWithdrawal = "withdrawal"
)

// WalletLimits holds the tiered spending caps and the running usage
// counters for one wallet. Usage counters only move forward within a
// period and are zeroed exactly once when the period rolls over.
type WalletLimits struct {
	ID       uint   `gorm:"primarykey"`
	WalletID uint   `gorm:"uniqueIndex;not null"`
	UserID   uint   `gorm:"index;not null"`
	Tier     string `gorm:"default:'basic'"`

	// A zero cap means the rule is unset and never enforced.
	PerTransactionMax float64 `gorm:"default:0"`

	DailySpendingLimit   float64 `gorm:"default:0"`
	DailyP2PLimit        float64 `gorm:"default:0"`
	DailyWithdrawalLimit float64 `gorm:"default:0"`

	MonthlySpendingLimit   float64 `gorm:"default:0"`
	MonthlyP2PLimit        float64 `gorm:"default:0"`
	MonthlyWithdrawalLimit float64 `gorm:"default:0"`

	DailySpendingUsed   float64 `gorm:"default:0"`
	DailyP2PUsed        float64 `gorm:"default:0"`
	DailyWithdrawalUsed float64 `gorm:"default:0"`

	MonthlySpendingUsed   float64 `gorm:"default:0"`
	MonthlyP2PUsed        float64 `gorm:"default:0"`
	MonthlyWithdrawalUsed float64 `gorm:"default:0"`

	LastDailyReset   time.Time
	LastMonthlyReset time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DailyLimit returns the daily cap for a category.
func (l *WalletLimits) DailyLimit(category string) float64 {
	switch category {
	case LimitCategoryP2P:
		return l.DailyP2PLimit
	case LimitCategoryWithdrawal:
		return l.DailyWithdrawalLimit
	default:
		return l.DailySpendingLimit
	}
}

// MonthlyLimit returns the monthly cap for a category.
func (l *WalletLimits) MonthlyLimit(category string) float64 {
	switch category {
	case LimitCategoryP2P:
		return l.MonthlyP2PLimit
	case LimitCategoryWithdrawal:
		return l.MonthlyWithdrawalLimit
	default:
		return l.MonthlySpendingLimit
	}
}

// DailyUsed returns the usage consumed today for a category.
func (l *WalletLimits) DailyUsed(category string) float64 {
	switch category {
	case LimitCategoryP2P:
		return l.DailyP2PUsed
	case LimitCategoryWithdrawal:
		return l.DailyWithdrawalUsed
	default:
		return l.DailySpendingUsed
	}
}

// MonthlyUsed returns the usage consumed this month for a category.
func (l *WalletLimits) MonthlyUsed(category string) float64 {
	switch category {
	case LimitCategoryP2P:
		return l.MonthlyP2PUsed
	case LimitCategoryWithdrawal:
		return l.MonthlyWithdrawalUsed
	default:
		return l.MonthlySpendingUsed
	}
}

// AddUsage increments both period counters for a category.
func (l *WalletLimits) AddUsage(category string, amount float64) {
	switch category {
	case LimitCategoryP2P:
		l.DailyP2PUsed += amount
		l.MonthlyP2PUsed += amount
	case LimitCategoryWithdrawal:
		l.DailyWithdrawalUsed += amount
		l.MonthlyWithdrawalUsed += amount
	default:
		l.DailySpendingUsed += amount
		l.MonthlySpendingUsed += amount
	}
}
