package main

import (
	"context"
	"log"

	"monay/internal/config"
	"monay/internal/models"
	"monay/internal/repositories"
	"monay/internal/services/balance"
)

// Seeds a pair of demo accounts with funded wallets so the transfer
// endpoints can be exercised locally without the identity service.
func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else {
				if err := sqlDB.Close(); err != nil {
					log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
				}
			}
		}

		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	walletRepo := repositories.NewWalletRepository(repositories.DB)
	balanceService := balance.NewService(
		walletRepo,
		repositories.CacheService,
		balance.Config{},
		&balance.NoopMetricsCollector{},
	)

	ctx := context.Background()
	seeds := []struct {
		user    models.User
		balance float64
	}{
		{
			user: models.User{
				Email:     "alice@example.com",
				Phone:     "+15550000001",
				Username:  "alice",
				FirstName: "Alice",
				LastName:  "Demo",
				Status:    models.UserStatusActive,
				Tier:      models.TierVerified,
			},
			balance: 1000,
		},
		{
			user: models.User{
				Email:     "bob@example.com",
				Phone:     "+15550000002",
				Username:  "bob",
				FirstName: "Bob",
				LastName:  "Demo",
				Status:    models.UserStatusActive,
				Tier:      models.TierBasic,
			},
			balance: 250,
		},
	}

	for _, s := range seeds {
		var existing models.User
		if err := repositories.DB.Where("email = ?", s.user.Email).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping", s.user.Email)
			continue
		}

		user := s.user
		if err := repositories.DB.Create(&user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}

		wallet, err := balanceService.GetOrCreateWallet(ctx, user.ID, models.WalletTypePrimary, user.Tier)
		if err != nil {
			log.Fatal("Failed to create wallet:", err)
		}

		if s.balance > 0 {
			_, err := balanceService.UpdateBalance(ctx, wallet.ID, s.balance, balance.DirectionCredit)
			if err != nil {
				log.Fatal("Failed to fund wallet:", err)
			}
		}

		log.Printf("✅ Seeded %s (wallet %d, balance %.2f)", user.Email, wallet.ID, s.balance)
	}
}
