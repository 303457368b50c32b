// Package notification writes DB-backed notification rows. Delivery
// is owned by an external collaborator; failures here are logged and
// never propagate to the operation that triggered them.
package notification

import (
	"context"
	"fmt"
	"log"

	"monay/internal/models"
	"monay/internal/repositories"
)

// Service records notifications for both parties of a transfer.
type Service struct {
	repo repositories.NotificationRepository
}

// NewService creates a new notification service.
func NewService(repo repositories.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// TransferCompleted records a notification for each participant of a
// completed transfer.
func (s *Service) TransferCompleted(ctx context.Context, t *models.Transfer) {
	s.record(&models.Notification{
		UserID:  t.SenderID,
		Type:    models.NotificationTransferSent,
		Title:   "Transfer sent",
		Message: fmt.Sprintf("You sent %.2f %s", t.Amount, t.Currency),
		Data: models.JSON{
			"transfer_ref": t.TransferRef,
			"amount":       t.Amount,
			"fee":          t.FeeAmount,
		},
	})
	s.record(&models.Notification{
		UserID:  t.RecipientID,
		Type:    models.NotificationTransferReceived,
		Title:   "Money received",
		Message: fmt.Sprintf("You received %.2f %s", t.Amount, t.Currency),
		Data: models.JSON{
			"transfer_ref": t.TransferRef,
			"amount":       t.Amount,
		},
	})
}

func (s *Service) record(n *models.Notification) {
	if err := s.repo.Create(n); err != nil {
		log.Printf("failed to record %s notification for user %d: %v", n.Type, n.UserID, err)
	}
}
