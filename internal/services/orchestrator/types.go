package orchestrator

import (
	"time"

	"monay/internal/models"
)

// Rails a payment can be routed over.
const (
	RailMonay  = "monay"
	RailCircle = "circle"
	RailSplit  = "split"
)

// Payment types the router knows fee and time estimates for.
const (
	PaymentTypePayment     = "payment"
	PaymentTypeTransfer    = "transfer"
	PaymentTypeWithdrawal  = "withdrawal"
	PaymentTypeDeposit     = "deposit"
	PaymentTypeBillPay     = "bill_pay"
	PaymentTypeCardPayment = "card_payment"
	PaymentTypeP2P         = "p2p"
)

// WalletSetup is the result of initializing a user's dual-wallet pair.
type WalletSetup struct {
	Wallet      *models.Wallet        `json:"wallet"`
	Link        *models.CustodialLink `json:"link"`
	LinkCreated bool                  `json:"link_created"`
}

// CombinedBalance aggregates both rails for a user.
type CombinedBalance struct {
	MonayBalance  float64 `json:"monay_balance"`
	CircleBalance float64 `json:"circle_balance"`
	TotalUSDValue float64 `json:"total_usd_value"`
	Currency      string  `json:"currency"`
}

// SyncResult reports a custodian balance sync. Failures come back in
// the struct, never as an error, so callers always get a report.
type SyncResult struct {
	Success          bool       `json:"success"`
	Error            string     `json:"error,omitempty"`
	WalletID         uint       `json:"wallet_id,omitempty"`
	USDCBalance      float64    `json:"usdc_balance,omitempty"`
	AvailableBalance float64    `json:"available_balance,omitempty"`
	PendingBalance   float64    `json:"pending_balance,omitempty"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
}

// RailEstimate holds one figure per rail.
type RailEstimate struct {
	Monay  float64 `json:"monay"`
	Circle float64 `json:"circle"`
}

// RouteAnalysis is the full scoring breakdown behind a recommendation.
type RouteAnalysis struct {
	Balances      CombinedBalance `json:"balances"`
	Fees          RailEstimate    `json:"fees"`
	Times         RailEstimate    `json:"times"`
	Scores        RailEstimate    `json:"scores"`
	CanUseMonay   bool            `json:"can_use_monay"`
	CanUseCircle  bool            `json:"can_use_circle"`
	RequiresSplit bool            `json:"requires_split"`
}

// Route is a routing recommendation with its supporting analysis.
type Route struct {
	RecommendedWallet string        `json:"recommended_wallet"`
	Reason            string        `json:"reason"`
	RoutingRef        string        `json:"routing_ref"`
	Analysis          RouteAnalysis `json:"analysis"`
}
