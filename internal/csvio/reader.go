// Package csvio is the delimited-text boundary: decoding transaction
// records from input and rendering the final account report.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"PayEngine/internal/tx"
)

// ParseError describes a malformed input row. It never aborts the run;
// the caller reports it and continues with the next row.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Reader decodes transaction records from delimited text with a
// `type,client,tx,amount` header. Surrounding whitespace in any field
// is trimmed before interpretation.
type Reader struct {
	cr   *csv.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	// Rows without an amount column are legal for dispute/resolve/chargeback.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{cr: cr}
}

// Read returns the next record, io.EOF at end of input, or *ParseError
// for a malformed row.
func (r *Reader) Read() (tx.Record, error) {
	for {
		fields, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			return tx.Record{}, io.EOF
		}
		r.line++
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return tx.Record{}, &ParseError{Line: r.line, Msg: err.Error()}
		}
		if err != nil {
			// Underlying reader failure: fatal, unlike a malformed row.
			return tx.Record{}, err
		}
		if r.line == 1 && isHeader(fields) {
			continue
		}
		return r.parse(fields)
	}
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.TrimSpace(fields[0]) == "type"
}

func (r *Reader) parse(fields []string) (tx.Record, error) {
	if len(fields) < 3 {
		return tx.Record{}, &ParseError{Line: r.line, Msg: fmt.Sprintf("expected at least 3 fields, got %d", len(fields))}
	}

	kind, err := tx.ParseKind(strings.TrimSpace(fields[0]))
	if err != nil {
		return tx.Record{}, &ParseError{Line: r.line, Msg: err.Error()}
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return tx.Record{}, &ParseError{Line: r.line, Msg: fmt.Sprintf("client id: %v", err)}
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return tx.Record{}, &ParseError{Line: r.line, Msg: fmt.Sprintf("tx id: %v", err)}
	}

	rec := tx.Record{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(txID),
	}

	if len(fields) >= 4 {
		if s := strings.TrimSpace(fields[3]); s != "" {
			amount, err := decimal.NewFromString(s)
			if err != nil {
				return tx.Record{}, &ParseError{Line: r.line, Msg: fmt.Sprintf("amount: %v", err)}
			}
			rec.Amount = &amount
		}
	}

	return rec, nil
}
