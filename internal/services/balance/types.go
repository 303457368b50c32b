package balance

import (
	"time"

	"monay/internal/models"
)

// Balance directions
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Balance is the effective balance view returned to callers.
type Balance struct {
	Available float64 `json:"available"`
	Pending   float64 `json:"pending"`
	Reserved  float64 `json:"reserved"`
	Currency  string  `json:"currency"`
}

// Change reports a committed balance mutation.
type Change struct {
	PreviousBalance float64 `json:"previous_balance"`
	NewBalance      float64 `json:"new_balance"`
}

// EntryInfo carries the ledger entry details recorded alongside a
// balance mutation.
type EntryInfo struct {
	UserID        uint
	Description   string
	ReferenceID   string
	ReferenceType string
	Metadata      map[string]interface{}
}

// LimitValidation enumerates every violated limit rule instead of
// failing on the first one; callers decide whether it is fatal.
type LimitValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// TierCaps are the default caps seeded for a limit tier.
type TierCaps struct {
	PerTransactionMax float64
	DailySpending     float64
	DailyP2P          float64
	DailyWithdrawal   float64
	MonthlySpending   float64
	MonthlyP2P        float64
	MonthlyWithdrawal float64
}

// Config holds balance service configuration.
type Config struct {
	DefaultCurrency string
	CacheTTL        time.Duration
	Tiers           map[string]TierCaps
}

// DefaultTiers returns the standard tier cap table.
func DefaultTiers() map[string]TierCaps {
	return map[string]TierCaps{
		models.TierBasic: {
			DailySpending:     1000,
			DailyP2P:          500,
			DailyWithdrawal:   300,
			MonthlySpending:   10000,
			MonthlyP2P:        5000,
			MonthlyWithdrawal: 3000,
		},
		models.TierVerified: {
			DailySpending:     5000,
			DailyP2P:          2500,
			DailyWithdrawal:   1000,
			MonthlySpending:   50000,
			MonthlyP2P:        25000,
			MonthlyWithdrawal: 10000,
		},
		models.TierPremium: {
			DailySpending:     25000,
			DailyP2P:          10000,
			DailyWithdrawal:   5000,
			MonthlySpending:   250000,
			MonthlyP2P:        100000,
			MonthlyWithdrawal: 50000,
		},
	}
}
