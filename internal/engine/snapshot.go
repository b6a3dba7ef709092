package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is one row of the end-of-run report.
type AccountSnapshot struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshots returns one snapshot per account that ever transacted,
// ordered by ascending client id. Pure read of final state.
func (e *Engine) Snapshots() []AccountSnapshot {
	accts := e.accounts.Accounts()
	sort.Slice(accts, func(i, j int) bool {
		return accts[i].Client < accts[j].Client
	})

	out := make([]AccountSnapshot, 0, len(accts))
	for _, a := range accts {
		out = append(out, AccountSnapshot{
			Client:    a.Client,
			Available: a.Available,
			Held:      a.Held,
			Total:     a.Total(),
			Locked:    a.Locked,
		})
	}
	return out
}
