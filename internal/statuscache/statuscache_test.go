package statuscache

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRecordAndReadLastSyncRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if run, err := c.LastSyncRun(ctx, "platform/frameworks/base"); err != nil {
		t.Fatalf("LastSyncRun (empty): %v", err)
	} else if run != nil {
		t.Fatalf("LastSyncRun (empty) = %+v, want nil", run)
	}

	if err := c.RecordSyncRun(ctx, "platform/frameworks/base", true, true, "ok"); err != nil {
		t.Fatalf("RecordSyncRun: %v", err)
	}
	if err := c.RecordSyncRun(ctx, "platform/frameworks/base", true, false, "dirty worktree"); err != nil {
		t.Fatalf("RecordSyncRun: %v", err)
	}

	run, err := c.LastSyncRun(ctx, "platform/frameworks/base")
	if err != nil {
		t.Fatalf("LastSyncRun: %v", err)
	}
	if run == nil {
		t.Fatal("LastSyncRun = nil, want the most recent run")
	}
	if run.LocalOK {
		t.Error("LocalOK = true, want false (most recent row)")
	}
	if run.Message != "dirty worktree" {
		t.Errorf("Message = %q, want %q", run.Message, "dirty worktree")
	}
}

func TestSnapshotReviewableUpsert(t *testing.T) {
	ctx := context.Background()
	c, err := Open(filepath.Join(t.TempDir(), "status.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.SnapshotReviewable(ctx, "proj", "topic", "m/master", "aaaa"); err != nil {
		t.Fatalf("SnapshotReviewable: %v", err)
	}
	if err := c.SnapshotReviewable(ctx, "proj", "topic", "m/master", "bbbb"); err != nil {
		t.Fatalf("SnapshotReviewable (update): %v", err)
	}

	var headOID string
	row := c.conn.QueryRowContext(ctx, `SELECT head_oid FROM reviewable_snapshot WHERE project = ? AND branch = ?`, "proj", "topic")
	if err := row.Scan(&headOID); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if headOID != "bbbb" {
		t.Errorf("head_oid = %q, want bbbb (upsert should replace, not duplicate)", headOID)
	}
}
