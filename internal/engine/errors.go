package engine

import (
	"errors"

	"PayEngine/internal/ledger"
)

var (
	// ErrMissingAmount rejects a deposit or withdrawal without an amount.
	ErrMissingAmount = errors.New("amount required")

	// ErrClientMismatch rejects a dispute/resolve/chargeback whose client
	// id differs from the referenced transaction's client id.
	ErrClientMismatch = errors.New("client id does not match referenced transaction")

	// ErrCannotDisputeTarget rejects a dispute against a non-deposit entry.
	ErrCannotDisputeTarget = errors.New("referenced transaction cannot be disputed")

	// ErrUnknownKind rejects a record whose kind was not recognized.
	ErrUnknownKind = errors.New("unknown transaction kind")

	// errStateFault marks an internal-consistency violation: the dispute
	// state machine guarantees these conditions cannot arise from input.
	errStateFault = errors.New("internal state fault")
)

// RejectReason maps a rejection to a stable label used for metrics and
// the diagnostic log.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingAmount), errors.Is(err, ErrUnknownKind):
		return "parse_error"
	case errors.Is(err, ledger.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, ledger.ErrDuplicateTx):
		return "duplicate_tx"
	case errors.Is(err, ledger.ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrUnknownTx):
		return "unknown_tx"
	case errors.Is(err, ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, ErrCannotDisputeTarget):
		return "cannot_dispute_target"
	case errors.Is(err, ledger.ErrInvalidDisputeState):
		return "invalid_dispute_state"
	case errors.Is(err, ledger.ErrInsufficientHeld), errors.Is(err, errStateFault):
		return "internal_fault"
	default:
		return "other"
	}
}
