package handlers

import (
	"errors"
	"time"

	"monay/internal/repositories"
	"monay/internal/services/transfer"
	"monay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	transfers transfer.Service
}

func NewTransferHandler(transfers transfer.Service) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

func (h *TransferHandler) CreateTransfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		RecipientIdentifier string  `json:"recipient_identifier"`
		RecipientType       string  `json:"recipient_type"`
		Amount              float64 `json:"amount"`
		Currency            string  `json:"currency"`
		Note                string  `json:"note"`
		Category            string  `json:"category"`
		ScheduledDate       string  `json:"scheduled_date"`
		Process             bool    `json:"process"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req := transfer.CreateRequest{
		RecipientIdentifier: input.RecipientIdentifier,
		RecipientType:       input.RecipientType,
		Amount:              input.Amount,
		Currency:            input.Currency,
		Note:                input.Note,
		Category:            input.Category,
	}
	if input.ScheduledDate != "" {
		when, err := time.Parse(time.RFC3339, input.ScheduledDate)
		if err != nil {
			return utils.BadRequest(c, "invalid scheduled date")
		}
		req.ScheduledDate = &when
	}

	t, err := h.transfers.CreateTransfer(c.Context(), claims.UserID, req)
	if err != nil {
		return transferError(c, err)
	}

	// Instant transfers can be settled in the same request.
	if input.Process && req.ScheduledDate == nil {
		result := h.transfers.ProcessTransfer(c.Context(), t.ID)
		if !result.Success {
			return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{
				"transfer": t,
				"error":    result.Error.Error(),
			})
		}
		t, _ = h.transfers.GetTransfer(c.Context(), t.ID, claims.UserID)
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"transfer": t})
}

func (h *TransferHandler) ProcessTransfer(c *fiber.Ctx) error {
	if _, err := extractUserClaims(c); err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return utils.BadRequest(c, "invalid transfer id")
	}

	result := h.transfers.ProcessTransfer(c.Context(), uint(transferID))
	if !result.Success {
		return transferError(c, result.Error)
	}

	return utils.Success(c, fiber.Map{
		"transfer_id":  result.TransferID,
		"transfer_ref": result.TransferRef,
		"status":       "completed",
	})
}

func (h *TransferHandler) CancelTransfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return utils.BadRequest(c, "invalid transfer id")
	}

	if err := h.transfers.CancelTransfer(c.Context(), uint(transferID), claims.UserID); err != nil {
		return transferError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "transfer cancelled"})
}

func (h *TransferHandler) RetryTransfer(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	transferID, err := c.ParamsInt("id")
	if err != nil || transferID <= 0 {
		return utils.BadRequest(c, "invalid transfer id")
	}

	result, err := h.transfers.RetryTransfer(c.Context(), uint(transferID), claims.UserID)
	if err != nil {
		return transferError(c, err)
	}
	if !result.Success {
		return utils.Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"transfer_id": result.TransferID,
			"error":       result.Error.Error(),
		})
	}

	return utils.Success(c, fiber.Map{
		"transfer_id": result.TransferID,
		"status":      "completed",
	})
}

func (h *TransferHandler) GetTransferHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	filter := repositories.TransferHistoryFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
		Type:   c.Query("type", "all"),
		Status: c.Query("status"),
	}
	if v := c.Query("start_date"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.BadRequest(c, "invalid start date")
		}
		filter.StartDate = &from
	}
	if v := c.Query("end_date"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.BadRequest(c, "invalid end date")
		}
		filter.EndDate = &to
	}

	history, err := h.transfers.GetTransferHistory(c.Context(), claims.UserID, filter)
	if err != nil {
		return utils.InternalError(c, "failed to get transfer history")
	}

	return utils.Success(c, fiber.Map{
		"transfers": history.Items,
		"total":     history.Total,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

// transferError maps engine sentinels to HTTP statuses.
func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, transfer.ErrTransferNotFound),
		errors.Is(err, transfer.ErrRecipientNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, transfer.ErrNotAuthorized):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, transfer.ErrInvalidAmount),
		errors.Is(err, transfer.ErrSelfTransfer),
		errors.Is(err, transfer.ErrCurrencyMismatch),
		errors.Is(err, transfer.ErrRecipientInactive),
		errors.Is(err, transfer.ErrSenderWalletNotFound):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrInsufficientBalance),
		errors.Is(err, transfer.ErrLimitExceeded),
		errors.Is(err, transfer.ErrInvalidState),
		errors.Is(err, transfer.ErrInvalidStateTransition),
		errors.Is(err, transfer.ErrMaxRetriesExceeded):
		return utils.UnprocessableEntity(c, err.Error())
	default:
		return utils.InternalError(c, "transfer operation failed")
	}
}
