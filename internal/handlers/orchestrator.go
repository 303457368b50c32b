package handlers

import (
	"errors"

	"monay/internal/repositories"
	"monay/internal/services/orchestrator"
	"monay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrchestratorHandler struct {
	orchestrator orchestrator.Service
}

func NewOrchestratorHandler(svc orchestrator.Service) *OrchestratorHandler {
	return &OrchestratorHandler{orchestrator: svc}
}

func (h *OrchestratorHandler) InitializeWallets(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	setup, err := h.orchestrator.InitializeUserWallets(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to initialize wallets")
	}

	status := fiber.StatusOK
	if setup.LinkCreated {
		status = fiber.StatusCreated
	}
	return utils.Respond(c, status, fiber.Map{
		"wallet": setup.Wallet,
		"link":   setup.Link,
	})
}

func (h *OrchestratorHandler) GetCombinedBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	combined, err := h.orchestrator.GetCombinedBalance(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to get combined balance")
	}
	return utils.Success(c, combined)
}

func (h *OrchestratorHandler) SyncCircleBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	result := h.orchestrator.SyncCircleBalance(c.Context(), claims.UserID)
	if !result.Success {
		// Sync failures are reports, not server errors.
		return utils.Respond(c, fiber.StatusBadGateway, result)
	}
	return utils.Success(c, result)
}

func (h *OrchestratorHandler) GetOptimalRoute(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	amount := c.QueryFloat("amount")
	if amount <= 0 {
		return utils.BadRequest(c, "amount must be greater than 0")
	}
	paymentType := c.Query("type")
	if paymentType == "" {
		paymentType = c.Query("payment_type", orchestrator.PaymentTypePayment)
	}

	metadata := map[string]interface{}{}
	if c.QueryBool("international") {
		metadata["international"] = true
	}

	route, err := h.orchestrator.GetOptimalPaymentRoute(c.Context(), claims.UserID, amount, paymentType, metadata)
	if err != nil {
		return utils.InternalError(c, "failed to compute payment route")
	}
	return utils.Success(c, route)
}
