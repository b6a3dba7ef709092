package ledger

import (
	"PayEngine/internal/tx"

	"github.com/shopspring/decimal"
)

// DisputeStatus is the lifecycle state of a ledger entry.
//
// Normal → Disputed → Resolved → Disputed (re-dispute)
//                   → ChargedBack (terminal)
type DisputeStatus int32

const (
	StatusNormal DisputeStatus = iota
	StatusDisputed
	StatusResolved
	StatusChargedBack
)

func (s DisputeStatus) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	case StatusChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// Entry records the facts of an applied deposit or withdrawal. Tx,
// Client, Kind and Amount are immutable once recorded; Status is the
// only mutable field and only moves along the transitions below.
type Entry struct {
	Tx     uint32
	Client uint16
	Kind   tx.Kind
	Amount decimal.Decimal
	Status DisputeStatus
}

// CanDispute reports whether a dispute may be opened against this
// entry. Re-disputing a resolved entry is allowed any number of times;
// a charged-back entry is terminal.
func (e *Entry) CanDispute() bool {
	return e.Status == StatusNormal || e.Status == StatusResolved
}

// BeginDispute transitions Normal or Resolved to Disputed.
func (e *Entry) BeginDispute() error {
	if !e.CanDispute() {
		return ErrInvalidDisputeState
	}
	e.Status = StatusDisputed
	return nil
}

// Resolve transitions Disputed to Resolved.
func (e *Entry) Resolve() error {
	if e.Status != StatusDisputed {
		return ErrInvalidDisputeState
	}
	e.Status = StatusResolved
	return nil
}

// Chargeback transitions Disputed to ChargedBack.
func (e *Entry) Chargeback() error {
	if e.Status != StatusDisputed {
		return ErrInvalidDisputeState
	}
	e.Status = StatusChargedBack
	return nil
}
