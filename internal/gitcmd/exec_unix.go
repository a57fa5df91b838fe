//go:build !windows

package gitcmd

import (
	"context"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// gracePeriod is how long a terminated subprocess gets to exit on its own
// before the gateway escalates to SIGKILL.
const gracePeriod = 5 * time.Second

// setCancelPgid puts the child in its own process group so a cancellation
// can terminate the whole subtree (a VCS tool may itself fork helpers).
func setCancelPgid(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// runWithCancellation runs cmd and, if ctx is cancelled before it exits,
// sends SIGTERM to the process group and gives it a grace period before
// escalating to SIGKILL. Either way, Wait is called on every exit path so
// the subprocess's pipes are fully drained per the resource-scoping model.
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
		pgid, err := syscall.Getpgid(cmd.Process.Pid)
		if err == nil {
			_ = unix.Kill(-pgid, syscall.SIGTERM)
		} else {
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}

		select {
		case err := <-waitErr:
			return err
		case <-time.After(gracePeriod):
			if err == nil {
				_ = unix.Kill(-pgid, syscall.SIGKILL)
			} else {
				_ = cmd.Process.Kill()
			}
			<-waitErr
			return ctx.Err()
		}
	}
}
