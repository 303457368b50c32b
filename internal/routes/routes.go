// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"monay/internal/config"
	"monay/internal/handlers"
	"monay/internal/middleware"
	"monay/internal/repositories"
	"monay/internal/services/balance"
	"monay/internal/services/custodian"
	"monay/internal/services/notification"
	"monay/internal/services/orchestrator"
	"monay/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	walletRepo := repositories.NewWalletRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	userRepo := repositories.NewUserRepository(db)
	linkRepo := repositories.NewCustodialLinkRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	balanceService := balance.NewService(
		walletRepo,
		repositories.CacheService,
		balance.Config{},
		&balance.NoopMetricsCollector{},
	)

	notifier := notification.NewService(notificationRepo)

	transferService := transfer.NewService(
		transferRepo,
		walletRepo,
		userRepo,
		balanceService,
		notifier,
	)

	custodianClient := custodian.NewClient(custodian.Config{
		BaseURL: config.GetEnv("CIRCLE_API_URL", "https://api-sandbox.circle.com"),
		APIKey:  config.GetEnv("CIRCLE_API_KEY", ""),
		Timeout: config.GetDurationEnv("CIRCLE_TIMEOUT", 30*time.Second),
	})

	orchestratorService := orchestrator.NewService(
		linkRepo,
		walletRepo,
		userRepo,
		custodianClient,
		balanceService,
	)

	walletHandler := handlers.NewWalletHandler(balanceService)
	transferHandler := handlers.NewTransferHandler(transferService)
	orchestratorHandler := handlers.NewOrchestratorHandler(orchestratorService)

	app.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Monay API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")
	protected := api.Use(middleware.Identity())

	wallets := protected.Group("/wallets")
	wallets.Get("/:id/balance", walletHandler.GetBalance)
	wallets.Post("/:id/limits", walletHandler.SetLimits)

	transfers := protected.Group("/transfers")
	transfers.Post("/", transferHandler.CreateTransfer)
	transfers.Get("/", transferHandler.GetTransferHistory)
	transfers.Post("/:id/process", transferHandler.ProcessTransfer)
	transfers.Post("/:id/cancel", transferHandler.CancelTransfer)
	transfers.Post("/:id/retry", transferHandler.RetryTransfer)

	users := protected.Group("/users")
	users.Get("/combined-balance", orchestratorHandler.GetCombinedBalance)
	users.Get("/optimal-route", orchestratorHandler.GetOptimalRoute)
	users.Post("/wallets/initialize", orchestratorHandler.InitializeWallets)
	users.Post("/sync-circle-balance", orchestratorHandler.SyncCircleBalance)
}
