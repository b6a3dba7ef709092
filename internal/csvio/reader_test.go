package csvio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"PayEngine/internal/tx"
)

func readAll(t *testing.T, input string) ([]tx.Record, []*ParseError) {
	t.Helper()
	r := NewReader(strings.NewReader(input))

	var recs []tx.Record
	var errs []*ParseError
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return recs, errs
		}
		var perr *ParseError
		if errors.As(err, &perr) {
			errs = append(errs, perr)
			continue
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		recs = append(recs, rec)
	}
}

func TestReaderBasic(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,100.0\n" +
		"withdrawal,1,2,25.5\n" +
		"dispute,1,1,\n"

	recs, errs := readAll(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	if recs[0].Kind != tx.KindDeposit || recs[0].Client != 1 || recs[0].Tx != 1 {
		t.Errorf("rec[0] = %+v", recs[0])
	}
	if recs[0].Amount == nil || !recs[0].Amount.Equal(decimal.RequireFromString("100.0")) {
		t.Errorf("rec[0].Amount = %v", recs[0].Amount)
	}
	if recs[2].Kind != tx.KindDispute || recs[2].Amount != nil {
		t.Errorf("rec[2] = %+v", recs[2])
	}
}

func TestReaderTrimsWhitespace(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit , 1 , 1 , 1.5 \n"

	recs, errs := readAll(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Kind != tx.KindDeposit || !recs[0].Amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("rec = %+v", recs[0])
	}
}

func TestReaderNoHeader(t *testing.T) {
	recs, errs := readAll(t, "deposit,1,1,2.0\n")
	if len(errs) != 0 || len(recs) != 1 {
		t.Fatalf("recs=%d errs=%d, want 1/0", len(recs), len(errs))
	}
}

func TestReaderMissingAmountColumn(t *testing.T) {
	// Reference rows may omit the amount column entirely.
	recs, errs := readAll(t, "resolve,1,1\nchargeback,2,2\n")
	if len(errs) != 0 || len(recs) != 2 {
		t.Fatalf("recs=%d errs=%d, want 2/0", len(recs), len(errs))
	}
	for _, r := range recs {
		if r.Amount != nil {
			t.Errorf("%s carried an amount: %v", r.Kind, r.Amount)
		}
	}
}

func TestReaderMalformedRows(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"transfer,1,1,5.0\n" + // unknown kind
		"deposit,abc,2,5.0\n" + // bad client id
		"deposit,1,xyz,5.0\n" + // bad tx id
		"deposit,70000,3,5.0\n" + // client id out of u16 range
		"deposit,1,4,notanumber\n" + // bad amount
		"deposit,1\n" + // too few fields
		"deposit,1,5,5.0\n" // valid

	recs, errs := readAll(t, input)
	if len(errs) != 6 {
		t.Fatalf("got %d parse errors, want 6: %v", len(errs), errs)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Tx != 5 {
		t.Errorf("surviving record = %+v", recs[0])
	}

	// Parse errors carry 1-based line numbers including the header.
	if errs[0].Line != 2 {
		t.Errorf("first error line = %d, want 2", errs[0].Line)
	}
}

func TestReaderEmptyInput(t *testing.T) {
	recs, errs := readAll(t, "")
	if len(recs) != 0 || len(errs) != 0 {
		t.Errorf("recs=%d errs=%d on empty input", len(recs), len(errs))
	}

	recs, errs = readAll(t, "type,client,tx,amount\n")
	if len(recs) != 0 || len(errs) != 0 {
		t.Errorf("recs=%d errs=%d on header-only input", len(recs), len(errs))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestReaderPropagatesIOFailure(t *testing.T) {
	r := NewReader(failingReader{})
	_, err := r.Read()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want underlying I/O error", err)
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		t.Fatalf("I/O failure misreported as parse error: %v", perr)
	}
}
