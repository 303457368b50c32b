package transfer

import "errors"

var (
	ErrTransferNotFound       = errors.New("transfer not found")
	ErrRecipientNotFound      = errors.New("recipient not found")
	ErrRecipientInactive      = errors.New("recipient account is not active")
	ErrSenderWalletNotFound   = errors.New("sender wallet not found")
	ErrSelfTransfer           = errors.New("cannot transfer to yourself")
	ErrCurrencyMismatch       = errors.New("currency mismatch")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrLimitExceeded          = errors.New("transaction limit exceeded")
	ErrNotAuthorized          = errors.New("not authorized for this transfer")
	ErrInvalidState           = errors.New("transfer is not in a valid state for this operation")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrMaxRetriesExceeded     = errors.New("maximum retries exceeded")
)
