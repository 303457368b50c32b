package handlers

import (
	"errors"

	"monay/internal/models"
	"monay/internal/services/balance"
	"monay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	balances balance.Service
}

func NewWalletHandler(balances balance.Service) *WalletHandler {
	return &WalletHandler{balances: balances}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	bal, err := h.balances.GetBalance(c.Context(), uint(walletID), claims.UserID)
	if err != nil {
		if errors.Is(err, balance.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get balance")
	}

	return utils.Success(c, fiber.Map{"balance": bal})
}

func (h *WalletHandler) SetLimits(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Tier              string  `json:"tier"`
		PerTransactionMax float64 `json:"per_transaction_max"`
		DailySpending     float64 `json:"daily_spending"`
		DailyP2P          float64 `json:"daily_p2p"`
		DailyWithdrawal   float64 `json:"daily_withdrawal"`
		MonthlySpending   float64 `json:"monthly_spending"`
		MonthlyP2P        float64 `json:"monthly_p2p"`
		MonthlyWithdrawal float64 `json:"monthly_withdrawal"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Tier == "" {
		input.Tier = models.TierBasic
	}

	// Wallet must belong to the caller.
	if _, err := h.balances.GetBalance(c.Context(), uint(walletID), claims.UserID); err != nil {
		if errors.Is(err, balance.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to load wallet")
	}

	limits, err := h.balances.SetLimits(c.Context(), uint(walletID), claims.UserID, input.Tier, &balance.TierCaps{
		PerTransactionMax: input.PerTransactionMax,
		DailySpending:     input.DailySpending,
		DailyP2P:          input.DailyP2P,
		DailyWithdrawal:   input.DailyWithdrawal,
		MonthlySpending:   input.MonthlySpending,
		MonthlyP2P:        input.MonthlyP2P,
		MonthlyWithdrawal: input.MonthlyWithdrawal,
	})
	if err != nil {
		if errors.Is(err, balance.ErrUnknownTier) {
			return utils.BadRequest(c, "unknown tier")
		}
		return utils.InternalError(c, "failed to set limits")
	}

	return utils.Success(c, fiber.Map{"limits": limits})
}
