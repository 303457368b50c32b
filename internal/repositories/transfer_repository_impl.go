package repositories

import (
	"context"
	"fmt"
	"time"

	"monay/internal/models"

	"gorm.io/gorm"
)

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(transfer *models.Transfer) error {
	if err := r.db.Create(transfer).Error; err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *transferRepository) GetByID(id uint) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.First(&transfer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return &transfer, nil
}

func (r *transferRepository) GetByRef(ref string) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.Where("transfer_ref = ?", ref).First(&transfer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return &transfer, nil
}

// UpdateStatusCAS is the compare-and-swap transition: the UPDATE is
// guarded on the expected current status, so of two concurrent
// attempts exactly one sees RowsAffected == 1.
func (r *transferRepository) UpdateStatusCAS(id uint, expected, next string) error {
	updates := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	switch next {
	case models.TransferStatusCompleted:
		updates["completed_at"] = time.Now()
	case models.TransferStatusFailed:
		updates["failed_at"] = time.Now()
	}

	result := r.db.Model(&models.Transfer{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update transfer status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from a lost race.
		var count int64
		r.db.Model(&models.Transfer{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return ErrTransferNotFound
		}
		return ErrInvalidStateTransition
	}
	return nil
}

func (r *transferRepository) SetFailureReason(id uint, reason string) error {
	return r.db.Model(&models.Transfer{}).
		Where("id = ?", id).
		Update("failure_reason", reason).Error
}

func (r *transferRepository) ClaimRetry(id uint) error {
	result := r.db.Model(&models.Transfer{}).
		Where("id = ? AND status = ? AND retry_count < max_retries", id, models.TransferStatusFailed).
		Updates(map[string]interface{}{
			"status":      models.TransferStatusProcessing,
			"retry_count": gorm.Expr("retry_count + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to claim retry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.Transfer{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return ErrTransferNotFound
		}
		return ErrInvalidStateTransition
	}
	return nil
}

func (r *transferRepository) History(ctx context.Context, userID uint, filter TransferHistoryFilter) ([]models.Transfer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transfer{})

	switch filter.Type {
	case "sent":
		query = query.Where("sender_id = ?", userID)
	case "received":
		query = query.Where("recipient_id = ?", userID)
	default:
		query = query.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var transfers []models.Transfer
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&transfers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transfer history: %w", err)
	}
	return transfers, total, nil
}
