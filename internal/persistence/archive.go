// Package persistence archives end-of-run account snapshots to
// Postgres. Archival is an export for downstream analysis; engine
// state is never restored from it.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"PayEngine/internal/engine"
)

const createSnapshotsSQL = `CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id     UUID          NOT NULL,
	client_id  INTEGER       NOT NULL,
	available  NUMERIC(24,4) NOT NULL,
	held       NUMERIC(24,4) NOT NULL,
	total      NUMERIC(24,4) NOT NULL,
	locked     BOOLEAN       NOT NULL,
	created_at TIMESTAMPTZ   NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, client_id)
)`

// SnapshotArchiver writes account snapshots using multi-row INSERTs.
type SnapshotArchiver struct {
	db        *sql.DB
	batchSize int
}

func NewSnapshotArchiver(db *sql.DB, batchSize int) *SnapshotArchiver {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &SnapshotArchiver{db: db, batchSize: batchSize}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (a *SnapshotArchiver) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createSnapshotsSQL); err != nil {
		return fmt.Errorf("create account_snapshots: %w", err)
	}
	return nil
}

// Archive writes all snapshots under runID in batches.
func (a *SnapshotArchiver) Archive(ctx context.Context, runID uuid.UUID, snaps []engine.AccountSnapshot) error {
	for start := 0; start < len(snaps); start += a.batchSize {
		end := start + a.batchSize
		if end > len(snaps) {
			end = len(snaps)
		}
		query, args := buildSnapshotInsert(runID, snaps[start:end])
		if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("archive snapshots [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// buildSnapshotInsert builds one multi-row INSERT. Re-running a batch
// for the same run id is idempotent via ON CONFLICT DO NOTHING.
func buildSnapshotInsert(runID uuid.UUID, snaps []engine.AccountSnapshot) (string, []any) {
	query := `INSERT INTO account_snapshots
		(run_id, client_id, available, held, total, locked)
		VALUES `

	values := make([]string, 0, len(snaps))
	args := make([]any, 0, len(snaps)*6)

	for i, s := range snaps {
		base := i * 6
		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args,
			runID.String(), int32(s.Client),
			s.Available.StringFixed(4), s.Held.StringFixed(4), s.Total.StringFixed(4),
			s.Locked,
		)
	}

	query += strings.Join(values, ", ")
	query += " ON CONFLICT (run_id, client_id) DO NOTHING"
	return query, args
}
