package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestRejectionLogWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	l := OpenRejectionLog(path, zerolog.Nop())
	l.Write("deposit tx 1 (client 1): duplicate transaction id")
	l.Write("line 3: unknown transaction kind: \"transfer\"")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "deposit tx 1 (client 1): duplicate transaction id\n" +
		"line 3: unknown transaction kind: \"transfer\"\n"
	if string(data) != want {
		t.Errorf("log contents:\n%s\nwant:\n%s", data, want)
	}
}

func TestRejectionLogFallsBackToDiscard(t *testing.T) {
	// A directory path cannot be created as a file.
	l := OpenRejectionLog(t.TempDir(), zerolog.Nop())
	l.Write("dropped")
	l.Close()
}

func TestDiscardingRejectionLog(t *testing.T) {
	l := DiscardingRejectionLog()
	l.Write("dropped")
	l.Close()
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"":      zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
