//go:build windows

package gitcmd

import (
	"context"
	"os/exec"
)

// setCancelPgid is a no-op on Windows; process groups are set up
// differently there and are not needed for the single-subprocess case the
// gateway issues.
func setCancelPgid(cmd *exec.Cmd) {}

// runWithCancellation runs cmd to completion, killing it outright if ctx
// is cancelled first. Windows has no SIGTERM equivalent cheap enough to
// reach for here, so cancellation goes straight to Kill.
func runWithCancellation(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		return err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-waitErr
		return ctx.Err()
	}
}
