package ledger

import (
	"errors"
	"testing"

	"PayEngine/internal/tx"
)

func TestAccountStorePutGet(t *testing.T) {
	s := NewAccountStore()

	if _, ok := s.Get(1); ok {
		t.Fatal("empty store returned an account")
	}

	a := NewAccount(1)
	s.Put(a)

	got, ok := s.Get(1)
	if !ok || got != a {
		t.Fatalf("Get(1) = %v, %v", got, ok)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestLedgerInsertDuplicate(t *testing.T) {
	l := NewLedger()

	e := &Entry{Tx: 7, Client: 1, Kind: tx.KindDeposit, Amount: d("5")}
	if err := l.Insert(e); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Same tx id for a different client is still a duplicate: ids are
	// globally unique.
	dup := &Entry{Tx: 7, Client: 2, Kind: tx.KindDeposit, Amount: d("9")}
	if err := l.Insert(dup); !errors.Is(err, ErrDuplicateTx) {
		t.Fatalf("err = %v, want ErrDuplicateTx", err)
	}

	got, err := l.Lookup(7)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Client != 1 || !got.Amount.Equal(d("5")) {
		t.Errorf("duplicate insert overwrote entry: %+v", got)
	}
}

func TestLedgerLookupUnknown(t *testing.T) {
	l := NewLedger()
	if _, err := l.Lookup(99); !errors.Is(err, ErrUnknownTx) {
		t.Fatalf("err = %v, want ErrUnknownTx", err)
	}
	if l.Contains(99) {
		t.Error("Contains(99) = true on empty ledger")
	}
}
