package transfer

import "monay/internal/models"

// stateTransitions is the transfer state machine. A failed transfer
// retries straight back into processing; it never re-enters pending,
// so a cancel can only ever race a transfer that has not started.
var stateTransitions = map[string][]string{
	models.TransferStatusPending:    {models.TransferStatusValidating, models.TransferStatusCancelled},
	models.TransferStatusValidating: {models.TransferStatusProcessing, models.TransferStatusFailed},
	models.TransferStatusProcessing: {models.TransferStatusCompleted, models.TransferStatusFailed},
	models.TransferStatusFailed:     {models.TransferStatusProcessing},
	models.TransferStatusCompleted:  {},
	models.TransferStatusCancelled:  {},
}

// canTransition reports whether the state machine allows the edge.
func canTransition(from, to string) bool {
	for _, next := range stateTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
