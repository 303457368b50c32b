package models

import "time"

// Notification event types
const (
	NotificationTransferSent     = "transfer_sent"
	NotificationTransferReceived = "transfer_received"
)

// Notification is a queued user notification. Delivery is handled by an
// external collaborator; this core only writes the rows.
type Notification struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"index;not null"`
	Type      string `gorm:"not null"`
	Title     string
	Message   string
	Data      JSON `gorm:"type:jsonb"`
	IsRead    bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
