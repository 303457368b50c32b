package repositories

import (
	"fmt"

	"monay/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository writes notification rows for the external
// delivery collaborator to pick up.
type NotificationRepository interface {
	Create(notification *models.Notification) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
