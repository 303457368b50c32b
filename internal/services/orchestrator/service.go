// Package orchestrator coordinates the internal fiat wallet with the
// external custodian wallet: initialization, combined views, balance
// sync and payment routing.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
	"monay/internal/services/balance"
	"monay/internal/services/custodian"

	"github.com/google/uuid"
)

// Service is the multi-custodian wallet orchestrator.
type Service interface {
	InitializeUserWallets(ctx context.Context, userID uint) (*WalletSetup, error)
	GetCombinedBalance(ctx context.Context, userID uint) (*CombinedBalance, error)
	SyncCircleBalance(ctx context.Context, userID uint) *SyncResult
	GetOptimalPaymentRoute(ctx context.Context, userID uint, amount float64, paymentType string, metadata map[string]interface{}) (*Route, error)
}

type service struct {
	links     repositories.CustodialLinkRepository
	wallets   repositories.WalletRepository
	users     repositories.UserRepository
	custodian custodian.Client
	ledger    balance.Service
}

// NewService creates a new orchestrator.
func NewService(
	links repositories.CustodialLinkRepository,
	wallets repositories.WalletRepository,
	users repositories.UserRepository,
	custodianClient custodian.Client,
	ledger balance.Service,
) Service {
	if links == nil || wallets == nil || users == nil || custodianClient == nil || ledger == nil {
		panic("orchestrator dependencies are required")
	}
	return &service{
		links:     links,
		wallets:   wallets,
		users:     users,
		custodian: custodianClient,
		ledger:    ledger,
	}
}

// InitializeUserWallets sets up the dual-wallet pair for a user:
// internal wallet with default limits, custodian wallet, and the link
// between them. Every leg is get-or-create, so repeat calls are
// harmless; a failed custodian call leaves no link behind.
func (s *service) InitializeUserWallets(ctx context.Context, userID uint) (*WalletSetup, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	wallet, err := s.ledger.GetOrCreateWallet(ctx, userID, models.WalletTypePrimary, user.Tier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize internal wallet: %w", err)
	}

	link, err := s.links.GetActiveByUserID(userID)
	if err == nil {
		return &WalletSetup{Wallet: wallet, Link: link}, nil
	}
	if err != repositories.ErrLinkNotFound {
		return nil, fmt.Errorf("failed to look up custodial link: %w", err)
	}

	custodianWallet, err := s.custodian.CreateWallet(ctx, userID, fmt.Sprintf("Consumer wallet for %s", user.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to create custodian wallet: %w", err)
	}

	link = &models.CustodialLink{
		UserID:         userID,
		WalletID:       wallet.ID,
		CircleWalletID: custodianWallet.WalletID,
		CircleAddress:  custodianWallet.Address,
		Status:         models.LinkStatusActive,
	}
	if err := s.links.Create(link); err != nil {
		return nil, fmt.Errorf("failed to create custodial link: %w", err)
	}

	return &WalletSetup{Wallet: wallet, Link: link, LinkCreated: true}, nil
}

// GetCombinedBalance aggregates the internal balance with the last
// synced custodian balance. Missing wallets on either rail count as
// zero; this is a read-only view.
func (s *service) GetCombinedBalance(ctx context.Context, userID uint) (*CombinedBalance, error) {
	combined := &CombinedBalance{Currency: "USD"}

	wallet, err := s.wallets.GetByUserIDAndType(userID, models.WalletTypePrimary)
	if err == nil {
		combined.MonayBalance = wallet.Balance
	} else if err != repositories.ErrWalletNotFound {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	link, err := s.links.GetActiveByUserID(userID)
	if err == nil {
		combined.CircleBalance = link.USDCBalance
	} else if err != repositories.ErrLinkNotFound {
		return nil, fmt.Errorf("failed to get custodial link: %w", err)
	}

	combined.TotalUSDValue = combined.MonayBalance + combined.CircleBalance
	return combined, nil
}

// SyncCircleBalance pulls the custodian's balance for the user's
// linked wallet and writes it back to the link row.
func (s *service) SyncCircleBalance(ctx context.Context, userID uint) *SyncResult {
	link, err := s.links.GetActiveByUserID(userID)
	if err != nil {
		if err == repositories.ErrLinkNotFound {
			return &SyncResult{Error: "Circle wallet not found"}
		}
		return &SyncResult{Error: err.Error()}
	}

	bal, err := s.custodian.GetWalletBalance(ctx, link.CircleWalletID)
	if err != nil {
		log.Printf("circle balance sync failed for user %d: %v", userID, err)
		return &SyncResult{Error: err.Error()}
	}

	if err := s.links.UpdateSyncedBalances(link.ID, bal.Balance, bal.AvailableBalance, bal.PendingBalance); err != nil {
		return &SyncResult{Error: err.Error()}
	}

	now := time.Now().UTC()
	return &SyncResult{
		Success:          true,
		WalletID:         link.WalletID,
		USDCBalance:      bal.Balance,
		AvailableBalance: bal.AvailableBalance,
		PendingBalance:   bal.PendingBalance,
		SyncedAt:         &now,
	}
}

// GetOptimalPaymentRoute scores both rails for a payment and persists
// the decision for audit. Balance sufficiency overrides the score; if
// neither rail covers the amount the recommendation is a split.
func (s *service) GetOptimalPaymentRoute(ctx context.Context, userID uint, amount float64, paymentType string, metadata map[string]interface{}) (*Route, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid amount %.2f", amount)
	}
	if paymentType == "" {
		paymentType = PaymentTypePayment
	}

	balances, err := s.GetCombinedBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	fees := RailEstimate{Monay: monayFee(amount, paymentType), Circle: circleFee(amount, paymentType)}
	times := RailEstimate{Monay: monayTime(paymentType), Circle: circleTime(paymentType)}

	international := false
	if v, ok := metadata["international"].(bool); ok {
		international = v
	}

	scores := routingScores(amount, balances.MonayBalance, balances.CircleBalance, paymentType, fees, times, international)

	selected := RailMonay
	reason := "Default to Monay wallet"
	if scores.Circle > scores.Monay {
		selected = RailCircle
		reason = "Better fees and speed with Circle"
	}

	// The score only proposes; sufficiency decides.
	switch {
	case selected == RailCircle && balances.CircleBalance < amount:
		if balances.MonayBalance >= amount {
			selected = RailMonay
			reason = "Insufficient USDC balance"
		} else {
			selected = RailSplit
			reason = "Requires combined balances"
		}
	case selected == RailMonay && balances.MonayBalance < amount:
		if balances.CircleBalance >= amount {
			selected = RailCircle
			reason = "Insufficient fiat balance"
		} else {
			selected = RailSplit
			reason = "Requires combined balances"
		}
	}

	routingRef := uuid.NewString()
	decision := &models.RoutingDecision{
		RoutingRef:         routingRef,
		UserID:             userID,
		DecisionType:       paymentType,
		SelectedWallet:     selected,
		RoutingReason:      reason,
		TotalAmount:        amount,
		MonayFeeEstimate:   fees.Monay,
		CircleFeeEstimate:  fees.Circle,
		MonayTimeEstimate:  times.Monay,
		CircleTimeEstimate: times.Circle,
		ScoreMonay:         scores.Monay,
		ScoreCircle:        scores.Circle,
		Factors:            models.JSON(metadata),
	}
	if err := s.links.CreateRoutingDecision(decision); err != nil {
		return nil, fmt.Errorf("failed to persist routing decision: %w", err)
	}

	return &Route{
		RecommendedWallet: selected,
		Reason:            reason,
		RoutingRef:        routingRef,
		Analysis: RouteAnalysis{
			Balances:      *balances,
			Fees:          fees,
			Times:         times,
			Scores:        scores,
			CanUseMonay:   balances.MonayBalance >= amount,
			CanUseCircle:  balances.CircleBalance >= amount,
			RequiresSplit: selected == RailSplit,
		},
	}, nil
}
