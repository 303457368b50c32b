package repositories

import (
	"context"
	"fmt"

	"monay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIDForOwner(id, ownerID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// GetByIDForUpdate re-reads the wallet row with a row lock so
// concurrent balance mutations serialize on the database transaction.
func (r *walletRepository) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserIDAndType(userID uint, walletType string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("user_id = ? AND type = ?", userID, walletType).First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) UpdateStatus(walletID uint, status, reason string) error {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{"status": status, "status_reason": reason})
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) CreateLedgerEntry(entry *models.LedgerEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (r *walletRepository) GetPendingTotals(ctx context.Context, walletID uint) (*PendingTotals, error) {
	totals := &PendingTotals{}
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("wallet_id = ? AND status = ? AND type = ?", walletID, models.EntryStatusPending, models.EntryTypeDebit).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totals.Debit).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending debits: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("wallet_id = ? AND status = ? AND type = ?", walletID, models.EntryStatusPending, models.EntryTypeCredit).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totals.Credit).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum pending credits: %w", err)
	}
	return totals, nil
}

func (r *walletRepository) GetLimits(walletID uint) (*models.WalletLimits, error) {
	var limits models.WalletLimits
	if err := r.db.Where("wallet_id = ?", walletID).First(&limits).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLimitsNotFound
		}
		return nil, fmt.Errorf("failed to get limits: %w", err)
	}
	return &limits, nil
}

func (r *walletRepository) GetLimitsForUpdate(walletID uint) (*models.WalletLimits, error) {
	var limits models.WalletLimits
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wallet_id = ?", walletID).
		First(&limits).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLimitsNotFound
		}
		return nil, fmt.Errorf("failed to lock limits: %w", err)
	}
	return &limits, nil
}

func (r *walletRepository) CreateLimits(limits *models.WalletLimits) error {
	if err := r.db.Create(limits).Error; err != nil {
		return fmt.Errorf("failed to create limits: %w", err)
	}
	return nil
}

func (r *walletRepository) SaveLimits(limits *models.WalletLimits) error {
	if err := r.db.Save(limits).Error; err != nil {
		return fmt.Errorf("failed to save limits: %w", err)
	}
	return nil
}

func (r *walletRepository) Transfers() TransferRepository {
	return &transferRepository{db: r.db}
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&walletRepository{db: tx})
	})
}
