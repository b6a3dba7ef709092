package ledger

import "errors"

// Sentinel rejection causes. Callers wrap these with record context and
// classify them with errors.Is.
var (
	ErrNegativeAmount      = errors.New("negative amount not allowed")
	ErrAccountLocked       = errors.New("account is locked")
	ErrInsufficientFunds   = errors.New("insufficient available funds")
	ErrInsufficientHeld    = errors.New("insufficient held funds")
	ErrDuplicateTx         = errors.New("duplicate transaction id")
	ErrUnknownTx           = errors.New("unknown transaction id")
	ErrInvalidDisputeState = errors.New("invalid dispute state transition")
)
