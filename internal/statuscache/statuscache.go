// Package statuscache keeps a local, queryable history of sync runs and
// reviewable-branch snapshots in a pure-Go SQLite database, so
// `reposync status --cached` can render the last known state without
// re-invoking the VCS tool across every project.
package statuscache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Cache wraps the SQLite connection backing the status history.
type Cache struct {
	conn *sql.DB
}

// Open opens (creating if absent) the cache database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("statuscache: creating directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("statuscache: opening %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("statuscache: pinging %s: %w", path, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("statuscache: %s: %w", pragma, err)
		}
	}

	c := &Cache{conn: conn}
	if err := c.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS sync_runs (
		project    TEXT NOT NULL,
		ran_at     TEXT NOT NULL,
		network_ok INTEGER NOT NULL,
		local_ok   INTEGER NOT NULL,
		message    TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_project_ran_at
		ON sync_runs(project, ran_at);

	CREATE TABLE IF NOT EXISTS reviewable_snapshot (
		project     TEXT NOT NULL,
		branch      TEXT NOT NULL,
		base        TEXT NOT NULL,
		head_oid    TEXT NOT NULL,
		captured_at TEXT NOT NULL,
		PRIMARY KEY (project, branch)
	);
	`
	if _, err := c.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("statuscache: initializing schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// RecordSyncRun appends one sync outcome for project. Called once per
// project at the end of each local half; best-effort, never gates sync.
func (c *Cache) RecordSyncRun(ctx context.Context, project string, networkOK, localOK bool, message string) error {
	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO sync_runs (project, ran_at, network_ok, local_ok, message) VALUES (?, ?, ?, ?, ?)`,
		project, time.Now().UTC().Format(time.RFC3339), boolToInt(networkOK), boolToInt(localOK), message)
	if err != nil {
		return fmt.Errorf("statuscache: recording sync run for %s: %w", project, err)
	}
	return nil
}

// SyncRun is one recorded outcome from RecordSyncRun.
type SyncRun struct {
	Project   string
	RanAt     time.Time
	NetworkOK bool
	LocalOK   bool
	Message   string
}

// LastSyncRun returns the most recent recorded outcome for project, or
// (nil, nil) if none has been recorded.
func (c *Cache) LastSyncRun(ctx context.Context, project string) (*SyncRun, error) {
	row := c.conn.QueryRowContext(ctx,
		`SELECT project, ran_at, network_ok, local_ok, message FROM sync_runs
		 WHERE project = ? ORDER BY ran_at DESC LIMIT 1`, project)

	var run SyncRun
	var ranAt string
	var networkOK, localOK int
	if err := row.Scan(&run.Project, &ranAt, &networkOK, &localOK, &run.Message); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("statuscache: reading last sync run for %s: %w", project, err)
	}
	parsed, err := time.Parse(time.RFC3339, ranAt)
	if err != nil {
		return nil, fmt.Errorf("statuscache: parsing ran_at: %w", err)
	}
	run.RanAt = parsed
	run.NetworkOK = networkOK != 0
	run.LocalOK = localOK != 0
	return &run, nil
}

// SnapshotReviewable records (or replaces) the current head of a
// reviewable branch so it can be reported without a live scan.
func (c *Cache) SnapshotReviewable(ctx context.Context, project, branch, base, headOID string) error {
	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO reviewable_snapshot (project, branch, base, head_oid, captured_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(project, branch) DO UPDATE SET
		   base = excluded.base, head_oid = excluded.head_oid, captured_at = excluded.captured_at`,
		project, branch, base, headOID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("statuscache: snapshotting %s/%s: %w", project, branch, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
