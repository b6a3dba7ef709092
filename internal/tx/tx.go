package tx

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind discriminates transaction record types.
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// ParseKind converts the input literal into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	case "dispute":
		return KindDispute, nil
	case "resolve":
		return KindResolve, nil
	case "chargeback":
		return KindChargeback, nil
	default:
		return KindUnknown, fmt.Errorf("unknown transaction kind: %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// MovesFunds reports whether records of this kind carry an amount and
// produce a ledger entry when applied.
func (k Kind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one parsed input line. Amount is nil for dispute, resolve
// and chargeback records; those reference a prior transaction by Tx.
type Record struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount *decimal.Decimal
}
