package csvio

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"

	"PayEngine/internal/engine"
)

func TestWriteSnapshots(t *testing.T) {
	snaps := []engine.AccountSnapshot{
		{
			Client:    1,
			Available: decimal.RequireFromString("74.5"),
			Held:      decimal.Zero,
			Total:     decimal.RequireFromString("74.5"),
			Locked:    false,
		},
		{
			Client:    2,
			Available: decimal.RequireFromString("0.00005"),
			Held:      decimal.RequireFromString("10"),
			Total:     decimal.RequireFromString("10.00005"),
			Locked:    true,
		},
	}

	var buf bytes.Buffer
	if err := WriteSnapshots(&buf, snaps); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,74.5000,0.0000,74.5000,false\n" +
		"2,0.0001,10.0000,10.0001,true\n"
	if got := buf.String(); got != want {
		t.Errorf("report mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteSnapshotsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshots(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "client,available,held,total,locked\n" {
		t.Errorf("got %q, want header only", got)
	}
}
