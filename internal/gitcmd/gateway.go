// Package gitcmd is the uniform gateway onto the external VCS tool.
//
// A Gateway is bound to one project: a bare object/ref store (gitdir) and,
// once initialized, a checked-out work tree sharing that store. Every other
// package in reposync that needs to run a VCS subcommand goes through a
// Gateway rather than shelling out itself, so argv construction, directory
// selection, and exit-code handling stay in one place.
package gitcmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/reposync/reposync/internal/vcserr"
)

// DefaultTimeout bounds any single subcommand invocation whose context
// carries no deadline of its own; fetch is bounded by it too unless its
// caller's context sets a deadline.
const DefaultTimeout = 10 * time.Minute

// Gateway runs the external VCS binary against either the bare repository
// or the work tree of a single project.
type Gateway struct {
	// Binary is the VCS executable name or path (normally "git").
	Binary string

	// ProjectName is used only to annotate errors.
	ProjectName string

	// GitDir is the bare repository directory.
	GitDir string

	// WorkTree is the checkout directory. May be empty before the work
	// tree is initialized; bare-only operations don't need it.
	WorkTree string
}

// New returns a Gateway for the given project paths.
func New(projectName, gitDir, workTree string) *Gateway {
	return &Gateway{
		Binary:      "git",
		ProjectName: projectName,
		GitDir:      gitDir,
		WorkTree:    workTree,
	}
}

// RunOpts controls one subcommand invocation.
type RunOpts struct {
	// Bare selects the bare repository as the working directory.
	// When false, the work tree is used.
	Bare bool

	// DisableEditor prevents the VCS tool from launching an interactive
	// editor (used for non-interactive rebases and commits).
	DisableEditor bool

	// Env carries additional "KEY=VALUE" entries appended to the
	// subprocess environment.
	Env []string
}

// Run executes a VCS subcommand and returns its captured stdout. A non-zero
// exit code is translated into a *vcserr.VcsError carrying the argv and
// captured stderr.
func (g *Gateway) Run(ctx context.Context, opts RunOpts, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	dir := g.WorkTree
	if opts.Bare {
		dir = g.GitDir
	}

	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), opts.Env...)
	if opts.DisableEditor {
		cmd.Env = append(cmd.Env, "GIT_EDITOR=true", "GIT_SEQUENCE_EDITOR=true", "GIT_MERGE_AUTOEDIT=no")
	}
	setCancelPgid(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := runWithCancellation(ctx, cmd)
	out := stdout.String()

	if runErr != nil {
		return out, &vcserr.VcsError{
			Project: g.ProjectName,
			Argv:    append([]string{g.Binary}, args...),
			Stderr:  stderr.String(),
			Err:     runErr,
		}
	}
	return out, nil
}

// RunLines is Run with trailing-newline-trimmed, blank-line-filtered output
// split on "\n".
func (g *Gateway) RunLines(ctx context.Context, opts RunOpts, args ...string) ([]string, error) {
	out, err := g.Run(ctx, opts, args...)
	if err != nil {
		return nil, err
	}
	return splitNonEmpty(out, "\n"), nil
}

// RunTrim is Run with the result's surrounding whitespace trimmed.
func (g *Gateway) RunTrim(ctx context.Context, opts RunOpts, args ...string) (string, error) {
	out, err := g.Run(ctx, opts, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Raw is the generic escape hatch: any subcommand name with a raw argument
// list, against the bare repository when bare is true and the work tree
// otherwise. Prefer the typed accessors in refs.go and
// diff.go; reach for Raw only for one-off subcommands the gateway does not
// otherwise expose.
func (g *Gateway) Raw(ctx context.Context, bare bool, args ...string) (string, error) {
	return g.Run(ctx, RunOpts{Bare: bare}, args...)
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsExitError reports whether err is an *exec.ExitError (possibly wrapped
// in a *vcserr.VcsError), distinguishing "the VCS tool ran and said no"
// from "we couldn't run the VCS tool at all".
func IsExitError(err error) bool {
	if ve, ok := err.(*vcserr.VcsError); ok {
		err = ve.Err
	}
	_, ok := err.(*exec.ExitError)
	return ok
}
