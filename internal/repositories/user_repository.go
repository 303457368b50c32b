package repositories

import (
	"errors"

	"monay/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the read-only view of the identity collaborator's
// user records needed for recipient resolution.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}
