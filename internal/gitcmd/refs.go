package gitcmd

import (
	"context"
	"strings"
)

// NullOID is the all-zero object id denoting "no object."
const NullOID = "0000000000000000000000000000000000000000"

// HEAD is the conventional name of the current-branch pointer.
const HEAD = "HEAD"

// Ref namespace prefixes (see spec §3).
const (
	RefHeads     = "refs/heads/"
	RefTags      = "refs/tags/"
	RefPublished = "refs/published/"
	RefManifest  = "refs/remotes/m/"
)

// NotRev turns a ref/oid into a rev-list exclusion argument ("^<rev>").
func NotRev(rev string) string { return "^" + rev }

// ListRefs enumerates every ref in the bare repository, returning a
// name->oid map built from a single for-each-ref invocation. The map
// does not keep for-each-ref's output order. There is no caching: each
// call reflects the current ref store.
func (g *Gateway) ListRefs(ctx context.Context) (map[string]string, error) {
	lines, err := g.RunLines(ctx, RunOpts{Bare: true}, "for-each-ref", "--format=%(objectname) %(refname)")
	if err != nil {
		return nil, err
	}
	refs := make(map[string]string, len(lines))
	for _, line := range lines {
		oid, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		refs[name] = oid
	}
	return refs, nil
}

// RevParse resolves a single rev expression to its object id.
func (g *Gateway) RevParse(ctx context.Context, bare bool, rev string) (string, error) {
	return g.RunTrim(ctx, RunOpts{Bare: bare}, "rev-parse", rev)
}

// RevList runs `rev-list <args>` against the bare repository and returns
// one entry per output line (typically object ids, or "<oid> <subject>"
// when --pretty is used).
//
// NOTE: the reference implementation builds a local argv with a trailing
// "--" and then discards it, passing the original args through unchanged.
// That is preserved here deliberately (see spec Design Notes, Open
// Questions) — do not add a "--" separator.
func (g *Gateway) RevList(ctx context.Context, args ...string) ([]string, error) {
	cmdArgs := append([]string{"rev-list"}, args...)
	return g.RunLines(ctx, RunOpts{Bare: true}, cmdArgs...)
}

// UpdateRef performs an atomic ref update, optionally compare-and-swapping
// against an expected old value and/or detaching (--no-deref).
func (g *Gateway) UpdateRef(ctx context.Context, name, newOID, oldOID, message string, detach bool) error {
	args := []string{"update-ref"}
	if message != "" {
		args = append(args, "-m", message)
	}
	if detach {
		args = append(args, "--no-deref")
	}
	args = append(args, name, newOID)
	if oldOID != "" {
		args = append(args, oldOID)
	}
	_, err := g.Run(ctx, RunOpts{Bare: true}, args...)
	return err
}

// DeleteRef deletes a ref, compare-and-swapping against old (resolving the
// current value first when old is empty) so concurrent writers cannot
// silently clobber each other.
func (g *Gateway) DeleteRef(ctx context.Context, name, oldOID string) error {
	if oldOID == "" {
		resolved, err := g.RevParse(ctx, true, name)
		if err != nil {
			return err
		}
		oldOID = resolved
	}
	_, err := g.Run(ctx, RunOpts{Bare: true}, "update-ref", "-d", name, oldOID)
	return err
}

// SymbolicRef runs `symbolic-ref <args>` against the bare repository.
func (g *Gateway) SymbolicRef(ctx context.Context, args ...string) (string, error) {
	return g.RunTrim(ctx, RunOpts{Bare: true}, append([]string{"symbolic-ref"}, args...)...)
}

// GetHead returns the symbolic target of HEAD (e.g. "refs/heads/master"),
// or an error if HEAD is detached (no symbolic ref).
func (g *Gateway) GetHead(ctx context.Context) (string, error) {
	return g.SymbolicRef(ctx, HEAD)
}

// SetHead points HEAD at a symbolic ref target.
func (g *Gateway) SetHead(ctx context.Context, target, message string) error {
	args := []string{}
	if message != "" {
		args = append(args, "-m", message)
	}
	args = append(args, HEAD, target)
	_, err := g.SymbolicRef(ctx, args...)
	return err
}

// DetachHead points HEAD directly at an object id (--no-deref), bypassing
// any symbolic ref it currently names.
func (g *Gateway) DetachHead(ctx context.Context, newOID, message string) error {
	return g.UpdateRef(ctx, HEAD, newOID, "", message, true)
}

// CommitterIdent runs `var GIT_COMMITTER_IDENT` and returns its raw output
// ("Name <email> 1700000000 +0000\n").
func (g *Gateway) CommitterIdent(ctx context.Context) (string, error) {
	return g.RunTrim(ctx, RunOpts{Bare: true}, "var", "GIT_COMMITTER_IDENT")
}

// IsNullOID reports whether oid is empty or the all-zero sentinel.
func IsNullOID(oid string) bool {
	return oid == "" || oid == NullOID
}
