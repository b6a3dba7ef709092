package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"

	"PayEngine/internal/tx"
)

func TestParseRecordDeposit(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"type":"deposit","client":1,"tx":42,"amount":"100.50"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Kind != tx.KindDeposit || rec.Client != 1 || rec.Tx != 42 {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Amount == nil || !rec.Amount.Equal(decimal.RequireFromString("100.50")) {
		t.Errorf("amount = %v", rec.Amount)
	}
}

func TestParseRecordReferenceWithoutAmount(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"type":"dispute","client":2,"tx":7}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Kind != tx.KindDispute || rec.Amount != nil {
		t.Errorf("rec = %+v", rec)
	}
}

func TestParseRecordTrimsFields(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"type":" deposit ","client":1,"tx":1,"amount":" 5 "}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Kind != tx.KindDeposit || !rec.Amount.Equal(decimal.RequireFromString("5")) {
		t.Errorf("rec = %+v", rec)
	}
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	cases := []string{
		`not json`,
		`{"type":"transfer","client":1,"tx":1}`,
		`{"type":"deposit","client":1,"tx":1,"amount":"abc"}`,
		`{"type":"deposit","client":"one","tx":1}`,
	}
	for _, c := range cases {
		if _, err := ParseRecord([]byte(c)); err == nil {
			t.Errorf("ParseRecord(%s) succeeded, want error", c)
		}
	}
}
