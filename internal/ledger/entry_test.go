package ledger

import (
	"errors"
	"testing"

	"PayEngine/internal/tx"
)

func newEntry() *Entry {
	return &Entry{Tx: 1, Client: 1, Kind: tx.KindDeposit, Amount: d("25")}
}

func TestEntryDisputeLifecycle(t *testing.T) {
	e := newEntry()

	if !e.CanDispute() {
		t.Fatal("fresh entry should be disputable")
	}
	if err := e.BeginDispute(); err != nil {
		t.Fatalf("begin dispute: %v", err)
	}
	if e.Status != StatusDisputed {
		t.Fatalf("status = %s, want disputed", e.Status)
	}
	if err := e.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if e.Status != StatusResolved {
		t.Fatalf("status = %s, want resolved", e.Status)
	}
}

func TestEntryRedispute(t *testing.T) {
	e := newEntry()
	e.BeginDispute()
	e.Resolve()

	if !e.CanDispute() {
		t.Fatal("resolved entry should be disputable again")
	}
	if err := e.BeginDispute(); err != nil {
		t.Fatalf("re-dispute: %v", err)
	}
	if err := e.Chargeback(); err != nil {
		t.Fatalf("chargeback after re-dispute: %v", err)
	}
}

func TestEntryChargebackIsTerminal(t *testing.T) {
	e := newEntry()
	e.BeginDispute()
	e.Chargeback()

	if e.CanDispute() {
		t.Error("charged-back entry must not be disputable")
	}
	if err := e.BeginDispute(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("dispute err = %v, want ErrInvalidDisputeState", err)
	}
	if err := e.Resolve(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("resolve err = %v, want ErrInvalidDisputeState", err)
	}
	if err := e.Chargeback(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("chargeback err = %v, want ErrInvalidDisputeState", err)
	}
}

func TestEntryInvalidTransitions(t *testing.T) {
	e := newEntry()
	if err := e.Resolve(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("resolve on normal entry: err = %v", err)
	}
	if err := e.Chargeback(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("chargeback on normal entry: err = %v", err)
	}

	e.BeginDispute()
	if err := e.BeginDispute(); !errors.Is(err, ErrInvalidDisputeState) {
		t.Errorf("double dispute: err = %v", err)
	}
}
