package observability

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// RejectionLog is the best-effort diagnostic sink for rejected and
// malformed records, one line per record. If the file cannot be opened
// the diagnostics are discarded; a sink failure never aborts the run.
type RejectionLog struct {
	f *os.File
	w *bufio.Writer
}

// OpenRejectionLog creates (truncating) the log at path. On failure it
// returns a discarding sink and logs a warning.
func OpenRejectionLog(path string, log zerolog.Logger) *RejectionLog {
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).
			Msg("cannot open rejection log, discarding diagnostics")
		return &RejectionLog{}
	}
	return &RejectionLog{f: f, w: bufio.NewWriter(f)}
}

// DiscardingRejectionLog returns a sink that drops every line.
func DiscardingRejectionLog() *RejectionLog {
	return &RejectionLog{}
}

// Write appends one diagnostic line. Write errors are ignored.
func (l *RejectionLog) Write(line string) {
	if l.w == nil {
		return
	}
	fmt.Fprintln(l.w, line)
}

// Close flushes and closes the underlying file, if any.
func (l *RejectionLog) Close() {
	if l.w != nil {
		l.w.Flush()
	}
	if l.f != nil {
		l.f.Close()
	}
}
