package repositories

import (
	"fmt"
	"strings"

	"monay/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email = ?", strings.ToLower(email))
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	return r.getBy("phone = ?", phone)
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username = ?", strings.ToLower(username))
}

func (r *userRepository) getBy(query string, value string) (*models.User, error) {
	var user models.User
	if err := r.db.Where(query, value).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
