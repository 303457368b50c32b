// Package transfer implements the P2P transfer engine. A transfer is a
// row driven through a small state machine; the money itself moves in
// one database transaction when the transfer is processed.
package transfer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
	"monay/internal/services/balance"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
)

type service struct {
	transfers repositories.TransferRepository
	wallets   repositories.WalletRepository
	users     repositories.UserRepository
	ledger    Ledger
	notifier  Notifier
}

// NewService creates a new transfer engine.
func NewService(
	transfers repositories.TransferRepository,
	wallets repositories.WalletRepository,
	users repositories.UserRepository,
	ledger Ledger,
	notifier Notifier,
) Service {
	if transfers == nil || wallets == nil || users == nil || ledger == nil {
		panic("transfer service dependencies are required")
	}
	return &service{
		transfers: transfers,
		wallets:   wallets,
		users:     users,
		ledger:    ledger,
		notifier:  notifier,
	}
}

// ValidateRecipient resolves a recipient identifier to a user and their
// primary wallet, creating a zero-balance wallet for users who have
// never held money.
func (s *service) ValidateRecipient(ctx context.Context, identifier, recipientType string) (*RecipientInfo, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrRecipientNotFound
	}

	user, err := s.lookupUser(identifier, recipientType)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrRecipientInactive
	}

	created := false
	if _, err := s.wallets.GetByUserIDAndType(user.ID, models.WalletTypePrimary); err != nil {
		if err != repositories.ErrWalletNotFound {
			return nil, fmt.Errorf("failed to look up recipient wallet: %w", err)
		}
		created = true
	}

	wallet, err := s.ledger.GetOrCreateWallet(ctx, user.ID, models.WalletTypePrimary, user.Tier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient wallet: %w", err)
	}

	display := user.Email
	if display == "" {
		display = user.Phone
	}
	if display == "" {
		display = user.Username
	}

	return &RecipientInfo{
		UserID:        user.ID,
		WalletID:      wallet.ID,
		Name:          user.FullName(),
		Identifier:    display,
		WalletCreated: created,
	}, nil
}

func (s *service) lookupUser(identifier, recipientType string) (*models.User, error) {
	if recipientType == "" || recipientType == RecipientTypeAuto {
		switch {
		case emailPattern.MatchString(identifier):
			recipientType = RecipientTypeEmail
		case phonePattern.MatchString(identifier):
			recipientType = RecipientTypePhone
		default:
			recipientType = RecipientTypeUsername
		}
	}

	var (
		user *models.User
		err  error
	)
	switch recipientType {
	case RecipientTypeEmail:
		user, err = s.users.GetByEmail(identifier)
	case RecipientTypePhone:
		user, err = s.users.GetByPhone(identifier)
	case RecipientTypeUsername:
		user, err = s.users.GetByUsername(identifier)
	case RecipientTypeID:
		var id uint
		if _, scanErr := fmt.Sscanf(identifier, "%d", &id); scanErr != nil {
			return nil, ErrRecipientNotFound
		}
		user, err = s.users.GetByID(id)
	default:
		return nil, fmt.Errorf("unknown recipient type %q", recipientType)
	}

	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to look up recipient: %w", err)
	}
	return user, nil
}

// CreateTransfer validates everything up front and persists a pending
// transfer row. No balance moves until the transfer is processed.
func (s *service) CreateTransfer(ctx context.Context, senderID uint, req CreateRequest) (*models.Transfer, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	recipient, err := s.ValidateRecipient(ctx, req.RecipientIdentifier, req.RecipientType)
	if err != nil {
		return nil, err
	}
	if recipient.UserID == senderID {
		return nil, ErrSelfTransfer
	}

	senderWallet, err := s.wallets.GetByUserIDAndType(senderID, models.WalletTypePrimary)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrSenderWalletNotFound
		}
		return nil, fmt.Errorf("failed to get sender wallet: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = senderWallet.Currency
	}
	if currency != senderWallet.Currency {
		return nil, ErrCurrencyMismatch
	}
	recipientWallet, err := s.wallets.GetByID(recipient.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient wallet: %w", err)
	}
	if currency != recipientWallet.Currency {
		return nil, ErrCurrencyMismatch
	}

	fee := 0.0
	if req.ScheduledDate != nil {
		fee = ScheduledTransferFee
	}
	total := req.Amount + fee

	if senderWallet.AvailableBalance() < total {
		return nil, ErrInsufficientBalance
	}

	validation, err := s.ledger.ValidateTransactionLimits(ctx, senderWallet.ID, req.Amount, models.LimitCategoryP2P)
	if err != nil {
		return nil, fmt.Errorf("failed to validate limits: %w", err)
	}
	if !validation.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrLimitExceeded, strings.Join(validation.Errors, "; "))
	}

	category := req.Category
	if category == "" {
		category = "personal"
	}

	t := &models.Transfer{
		TransferRef:       uuid.NewString(),
		SenderID:          senderID,
		SenderWalletID:    senderWallet.ID,
		RecipientID:       recipient.UserID,
		RecipientWalletID: recipient.WalletID,
		Amount:            req.Amount,
		FeeAmount:         fee,
		TotalAmount:       total,
		Currency:          currency,
		Note:              req.Note,
		Category:          category,
		Status:            models.TransferStatusPending,
		MaxRetries:        models.DefaultMaxRetries,
		ScheduledDate:     req.ScheduledDate,
		InitiatedAt:       time.Now(),
	}
	if err := s.transfers.Create(t); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}
	return t, nil
}

// GetTransfer returns a transfer visible to the requester. Users who
// are neither sender nor recipient see it as missing.
func (s *service) GetTransfer(ctx context.Context, transferID, requesterID uint) (*models.Transfer, error) {
	t, err := s.transfers.GetByID(transferID)
	if err != nil {
		return nil, s.translate(err)
	}
	if t.SenderID != requesterID && t.RecipientID != requesterID {
		return nil, ErrTransferNotFound
	}
	return t, nil
}

// ProcessTransfer moves a pending transfer through validating and
// processing and settles both legs. Failures never propagate as raw
// errors; the transfer is marked failed and the outcome reported in
// the Result so a scheduler can retry it.
func (s *service) ProcessTransfer(ctx context.Context, transferID uint) *Result {
	t, err := s.transfers.GetByID(transferID)
	if err != nil {
		return &Result{TransferID: transferID, Error: s.translate(err)}
	}

	if t.ScheduledDate != nil && time.Now().Before(*t.ScheduledDate) {
		return &Result{TransferID: t.ID, TransferRef: t.TransferRef, Error: ErrInvalidState}
	}

	if err := s.transition(t, models.TransferStatusPending, models.TransferStatusValidating); err != nil {
		return &Result{TransferID: t.ID, TransferRef: t.TransferRef, Error: err}
	}
	if err := s.transition(t, models.TransferStatusValidating, models.TransferStatusProcessing); err != nil {
		return &Result{TransferID: t.ID, TransferRef: t.TransferRef, Error: err}
	}

	return s.settle(ctx, t)
}

// settle runs the money movement for a transfer already in processing:
// sender debit, limit usage, recipient credit, both ledger entries and
// the completion status change, all on one database transaction.
func (s *service) settle(ctx context.Context, t *models.Transfer) *Result {
	err := s.wallets.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		_, err := s.ledger.UpdateBalanceIn(tx, t.SenderWalletID, t.TotalAmount, balance.DirectionDebit, &balance.EntryInfo{
			UserID:        t.SenderID,
			Description:   fmt.Sprintf("P2P transfer to user %d", t.RecipientID),
			ReferenceID:   t.TransferRef,
			ReferenceType: models.ReferenceTypeP2PTransfer,
			Metadata: map[string]interface{}{
				"recipient_id": t.RecipientID,
				"note":         t.Note,
				"fee":          t.FeeAmount,
			},
		})
		if err != nil {
			return err
		}

		if err := s.ledger.UpdateLimitUsage(tx, t.SenderWalletID, t.Amount, balance.DirectionDebit, models.LimitCategoryP2P); err != nil {
			return err
		}

		// The recipient receives the amount only; fees stay debited.
		_, err = s.ledger.UpdateBalanceIn(tx, t.RecipientWalletID, t.Amount, balance.DirectionCredit, &balance.EntryInfo{
			UserID:        t.RecipientID,
			Description:   fmt.Sprintf("P2P transfer from user %d", t.SenderID),
			ReferenceID:   t.TransferRef,
			ReferenceType: models.ReferenceTypeP2PTransfer,
			Metadata: map[string]interface{}{
				"sender_id": t.SenderID,
				"note":      t.Note,
			},
		})
		if err != nil {
			return err
		}

		return tx.Transfers().UpdateStatusCAS(t.ID, models.TransferStatusProcessing, models.TransferStatusCompleted)
	})

	if err != nil {
		s.markFailed(t, err)
		return &Result{TransferID: t.ID, TransferRef: t.TransferRef, Error: s.translate(err)}
	}

	s.ledger.InvalidateBalance(ctx, t.SenderWalletID)
	s.ledger.InvalidateBalance(ctx, t.RecipientWalletID)

	t.Status = models.TransferStatusCompleted
	if s.notifier != nil {
		s.notifier.TransferCompleted(ctx, t)
	}

	return &Result{Success: true, TransferID: t.ID, TransferRef: t.TransferRef}
}

func (s *service) markFailed(t *models.Transfer, cause error) {
	if err := s.transfers.UpdateStatusCAS(t.ID, models.TransferStatusProcessing, models.TransferStatusFailed); err != nil {
		return
	}
	t.Status = models.TransferStatusFailed
	_ = s.transfers.SetFailureReason(t.ID, cause.Error())
}

func (s *service) transition(t *models.Transfer, expected, next string) error {
	if err := s.transfers.UpdateStatusCAS(t.ID, expected, next); err != nil {
		return s.translate(err)
	}
	t.Status = next
	return nil
}

// UpdateTransferState is the compare-and-swap state change. The edge
// must exist in the state machine and the row must still hold the
// expected status; of two concurrent callers exactly one wins.
func (s *service) UpdateTransferState(ctx context.Context, transferID uint, expected, next string) error {
	if !canTransition(expected, next) {
		return ErrInvalidStateTransition
	}
	return s.translate(s.transfers.UpdateStatusCAS(transferID, expected, next))
}

// CancelTransfer cancels a transfer that has not started processing.
// Only the sender may cancel.
func (s *service) CancelTransfer(ctx context.Context, transferID, requesterID uint) error {
	t, err := s.transfers.GetByID(transferID)
	if err != nil {
		return s.translate(err)
	}
	if t.SenderID != requesterID {
		return ErrNotAuthorized
	}
	if t.Status != models.TransferStatusPending {
		return ErrInvalidState
	}
	if err := s.transfers.UpdateStatusCAS(transferID, models.TransferStatusPending, models.TransferStatusCancelled); err != nil {
		if err == repositories.ErrInvalidStateTransition {
			// Lost the race against processing.
			return ErrInvalidState
		}
		return s.translate(err)
	}
	return nil
}

// RetryTransfer re-runs a failed transfer. The retry resumes at
// processing rather than re-entering pending, so the transfer can
// never be cancelled once money movement has been attempted.
func (s *service) RetryTransfer(ctx context.Context, transferID, requesterID uint) (*Result, error) {
	t, err := s.transfers.GetByID(transferID)
	if err != nil {
		return nil, s.translate(err)
	}
	if t.SenderID != requesterID {
		return nil, ErrNotAuthorized
	}
	if t.Status != models.TransferStatusFailed {
		return nil, ErrInvalidState
	}
	if t.RetryCount >= t.MaxRetries {
		return nil, ErrMaxRetriesExceeded
	}

	// The guarded update consumes retry budget only when it wins the
	// failed -> processing race.
	if err := s.transfers.ClaimRetry(transferID); err != nil {
		return nil, s.translate(err)
	}
	t.Status = models.TransferStatusProcessing
	t.RetryCount++
	return s.settle(ctx, t), nil
}

// GetTransferHistory returns a filtered page of the user's transfers,
// each projected from the requesting user's side.
func (s *service) GetTransferHistory(ctx context.Context, userID uint, filter repositories.TransferHistoryFilter) (*History, error) {
	transfers, total, err := s.transfers.History(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer history: %w", err)
	}

	history := &History{
		Items: make([]HistoryItem, 0, len(transfers)),
		Total: total,
	}
	for i := range transfers {
		history.Items = append(history.Items, historyItem(&transfers[i], userID))
	}
	return history, nil
}

// translate maps repository and ledger sentinels onto the engine's
// error taxonomy.
func (s *service) translate(err error) error {
	switch err {
	case nil:
		return nil
	case repositories.ErrTransferNotFound:
		return ErrTransferNotFound
	case repositories.ErrInvalidStateTransition:
		return ErrInvalidStateTransition
	case balance.ErrInsufficientBalance:
		return ErrInsufficientBalance
	default:
		return err
	}
}
