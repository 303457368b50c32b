package models

import (
	"time"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

// User is the projection of the identity collaborator's account record
// that the transfer engine needs for recipient resolution and the
// balance service needs for tier seeding.
type User struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Phone     string `gorm:"index"`
	Username  string `gorm:"uniqueIndex"`
	FirstName string
	LastName  string
	Status    string `gorm:"default:'active'"`
	Tier      string `gorm:"default:'basic'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
