package repositories

import (
	"fmt"
	"time"

	"monay/internal/models"

	"gorm.io/gorm"
)

type custodialLinkRepository struct {
	db *gorm.DB
}

func NewCustodialLinkRepository(db *gorm.DB) CustodialLinkRepository {
	return &custodialLinkRepository{db: db}
}

func (r *custodialLinkRepository) GetActiveByUserID(userID uint) (*models.CustodialLink, error) {
	var link models.CustodialLink
	err := r.db.Where("user_id = ? AND status = ?", userID, models.LinkStatusActive).
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get custodial link: %w", err)
	}
	return &link, nil
}

func (r *custodialLinkRepository) Create(link *models.CustodialLink) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create custodial link: %w", err)
	}
	return nil
}

func (r *custodialLinkRepository) UpdateSyncedBalances(id uint, balance, available, pending float64) error {
	now := time.Now()
	err := r.db.Model(&models.CustodialLink{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usdc_balance":      balance,
			"available_balance": available,
			"pending_balance":   pending,
			"last_synced_at":    &now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update synced balances: %w", err)
	}
	return nil
}

func (r *custodialLinkRepository) CreateRoutingDecision(decision *models.RoutingDecision) error {
	if err := r.db.Create(decision).Error; err != nil {
		return fmt.Errorf("failed to create routing decision: %w", err)
	}
	return nil
}
