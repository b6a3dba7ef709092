package ledger

import "github.com/shopspring/decimal"

// Account is the per-client balance state. Available plus Held is the
// total; Total is always derived, never stored. Once Locked is set it
// stays set for the lifetime of the run.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

func NewAccount(client uint16) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds amount to available funds. Rejected on a locked account
// or for a negative amount; a zero amount is a valid no-op.
func (a *Account) Credit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	a.Available = a.Available.Add(amount)
	return nil
}

// Debit removes amount from available funds.
func (a *Account) Debit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	return nil
}

// Hold freezes amount, moving it from available to held. Lock state is
// irrelevant here: disputes are permitted on locked accounts.
func (a *Account) Hold(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// Release moves amount from held back to available. Hold amounts come
// from ledger entries, never from untrusted input, so a shortfall here
// means the dispute state machine was violated, not a bad record.
func (a *Account) Release(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// Chargeback removes amount from held without returning it to
// available and locks the account.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeld
	}
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}
