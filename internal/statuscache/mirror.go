package statuscache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Mirror is an optional cloud replica of the sync-run history, backed
// by a Turso/libSQL database. Wiring it is strictly additive: a
// mirror failure never affects RecordSyncRun's local write.
type Mirror struct {
	conn *sql.DB
}

// MirrorTo opens a libSQL connection (a local file, "http(s)://" remote,
// or "libsql://" embedded-replica DSN) and mirrors this schema into it.
func MirrorTo(ctx context.Context, dsn string) (*Mirror, error) {
	conn, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("statuscache: opening mirror %s: %w", dsn, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("statuscache: pinging mirror %s: %w", dsn, err)
	}

	m := &Mirror{conn: conn}
	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sync_runs (
			project    TEXT NOT NULL,
			ran_at     TEXT NOT NULL,
			network_ok INTEGER NOT NULL,
			local_ok   INTEGER NOT NULL,
			message    TEXT
		)`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("statuscache: initializing mirror schema: %w", err)
	}
	return m, nil
}

// Push replicates one RecordSyncRun write. Callers should log and
// discard errors rather than fail the sync over a mirror outage.
func (m *Mirror) Push(ctx context.Context, project string, networkOK, localOK bool, message, ranAt string) error {
	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO sync_runs (project, ran_at, network_ok, local_ok, message) VALUES (?, ?, ?, ?, ?)`,
		project, ranAt, boolToInt(networkOK), boolToInt(localOK), message)
	if err != nil {
		return fmt.Errorf("statuscache: pushing mirror row for %s: %w", project, err)
	}
	return nil
}

// Close closes the mirror connection.
func (m *Mirror) Close() error {
	return m.conn.Close()
}
