package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunNotifiesOnManifestWrite(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(manifestPath, []byte("remotes: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(manifestPath, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notified := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case notified <- struct{}{}:
			default:
			}
		})
	}()

	// give the watcher goroutine a moment to register the directory watch
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(manifestPath, []byte("remotes: [updated]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not called after manifest write")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	<-done
}
