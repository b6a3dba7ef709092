// Package ingestion feeds transaction records from NATS into the
// engine's single apply goroutine.
package ingestion

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"PayEngine/internal/tx"
)

// recordJSON is the wire format for one transaction record. Field
// names use snake_case to match the delimited-text column names.
type recordJSON struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount,omitempty"`
}

// ParseRecord converts raw JSON bytes into a tx.Record. Surrounding
// whitespace in string fields is trimmed before interpretation, same
// as the delimited-text path.
func ParseRecord(data []byte) (tx.Record, error) {
	var j recordJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return tx.Record{}, fmt.Errorf("parse record: %w", err)
	}

	kind, err := tx.ParseKind(strings.TrimSpace(j.Type))
	if err != nil {
		return tx.Record{}, err
	}

	rec := tx.Record{
		Kind:   kind,
		Client: j.Client,
		Tx:     j.Tx,
	}

	if s := strings.TrimSpace(j.Amount); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return tx.Record{}, fmt.Errorf("parse amount: %w", err)
		}
		rec.Amount = &amount
	}

	return rec, nil
}
