// Package vcserr defines the error kinds raised by the reconciliation
// engine and its supporting components.
//
// These errors can be checked using errors.Is() or errors.As():
//
//	if errors.Is(err, vcserr.ErrDetached) {
//	    // tell the user to check out a branch
//	}
package vcserr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the reconciliation engine.
var (
	// ErrNotAProject is returned when an operation is attempted against a
	// path that is not a valid project (gitdir missing or not bare).
	ErrNotAProject = errors.New("not a project directory")

	// ErrVCSNotAvailable is returned when the external VCS binary cannot
	// be found, or is older than the configured minimum version.
	ErrVCSNotAvailable = errors.New("vcs binary not available")

	// ErrRefusedDirty names the refusal to sync when a tree change is
	// required but the worktree has uncommitted changes. syncengine.LocalHalf
	// reports that outcome as (false, nil) and does not return this error.
	ErrRefusedDirty = errors.New("refusing to sync: worktree has uncommitted changes")

	// ErrNoTrackingBranch is returned when an operation needs a branch's
	// tracking configuration but none is present.
	ErrNoTrackingBranch = errors.New("branch has no tracking configuration")

	// ErrNoReviewURL is returned when a branch's remote has no review
	// server configured.
	ErrNoReviewURL = errors.New("remote has no review url")

	// ErrNoBaseRefs is returned when an upload cannot compute a base set
	// because the remote's fetchspecs claim nothing.
	ErrNoBaseRefs = errors.New("no base refs, cannot upload")

	// ErrDetached is returned when an operation requires being on a
	// branch but HEAD is detached.
	ErrDetached = errors.New("not currently on a branch")
)

// VcsError is returned when an external VCS subcommand exits non-zero, or
// produces output the gateway cannot parse.
type VcsError struct {
	Project string
	Argv    []string
	Stderr  string
	Err     error
}

func (e *VcsError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Project, strings.Join(e.Argv, " "))
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VcsError) Unwrap() error { return e.Err }

// ImportError is raised when fetch prerequisites are missing, such as an
// unknown or unreachable remote.
type ImportError struct {
	Project string
	Reason  string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: import failed: %s", e.Project, e.Reason)
}

// UploadKind discriminates the two ways a review upload can fail.
type UploadKind string

const (
	// UploadKindLogin indicates authentication to the review server failed.
	UploadKindLogin UploadKind = "login"
	// UploadKindHTTP indicates the review server returned a non-2xx status.
	UploadKindHTTP UploadKind = "http"
)

// UploadError is raised by the publish/review engine when UploadBundle
// fails. It is never returned after the published ref has been updated.
type UploadError struct {
	Kind   UploadKind
	Detail string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%s): %s", e.Kind, e.Detail)
}

// IsRefusal reports whether err represents a non-fatal refusal that the
// engine returned instead of acting (dirty worktree, missing tracking
// config, and similar). Callers typically report these per-project and
// continue the batch.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrRefusedDirty) || errors.Is(err, ErrNoTrackingBranch)
}

// IsFatal reports whether err indicates the project cannot be operated on
// at all this run (missing binary, not a project).
func IsFatal(err error) bool {
	return errors.Is(err, ErrVCSNotAvailable) || errors.Is(err, ErrNotAProject)
}
