package repositories

import (
	"errors"

	"monay/internal/models"
)

var ErrLinkNotFound = errors.New("custodial link not found")

// CustodialLinkRepository owns the custodial_links and
// routing_decisions tables; only the orchestrator mutates them.
type CustodialLinkRepository interface {
	GetActiveByUserID(userID uint) (*models.CustodialLink, error)
	Create(link *models.CustodialLink) error
	UpdateSyncedBalances(id uint, balance, available, pending float64) error
	CreateRoutingDecision(decision *models.RoutingDecision) error
}
