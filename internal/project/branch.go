package project

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/remoteconfig"
)

// ReviewableBranch pairs a local branch with the upstream ref it should
// be compared against when deciding whether it still needs review.
type ReviewableBranch struct {
	Project *Project
	Branch  *remoteconfig.Branch
	Base    string

	commits    []string
	commitsSet bool
}

// Commits lazily computes the oneline log of commits on this branch not
// yet in Base. The result is cached for the lifetime of the
// ReviewableBranch value, matching its use as a one-shot sync-decision
// snapshot.
func (rb *ReviewableBranch) Commits(ctx context.Context) ([]string, error) {
	if rb.commitsSet {
		return rb.commits, nil
	}
	lines, err := rb.Project.Bare.RevList(ctx, "--abbrev-commit", "--pretty=oneline", gitcmd.NotRev(rb.Base), gitcmd.RefHeads+rb.Branch.Name)
	if err != nil {
		return nil, err
	}
	rb.commits = lines
	rb.commitsSet = true
	return rb.commits, nil
}

// Date returns the committer date of this branch's tip, in the same
// "%cd"-formatted string `git log --pretty=format:%cd` would produce,
// optionally filtered to commits no older than since (RFC3339).
func (rb *ReviewableBranch) Date(ctx context.Context, since string) (string, error) {
	args := []string{"log", "-1", "--pretty=format:%cd"}
	if since != "" {
		args = append(args, "--since="+since)
	}
	args = append(args, gitcmd.RefHeads+rb.Branch.Name)
	return rb.Project.Bare.Raw(ctx, true, args...)
}

// StartBranch creates a new local branch off the project's
// manifest-declared revision and records its tracking configuration.
func (p *Project) StartBranch(ctx context.Context, name string) error {
	branch, err := p.GetBranch(ctx, name)
	if err != nil {
		return err
	}
	branch.Name = name
	branch.Remote = p.Remote
	branch.Merge = p.Revision

	rev := branch.LocalMerge()
	if _, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false, DisableEditor: true}, "checkout", "-b", name, rev); err != nil {
		return fmt.Errorf("project %s: checkout -b %s %s: %w", p.Name, name, rev, err)
	}
	return branch.Save(ctx, p.Bare)
}

var deletedBranchRe = regexp.MustCompile(`^Deleted branch (.*)\.$`)

// PruneHeads deletes every local branch already fully merged into the
// project's tracked revision, returning ReviewableBranch records for the
// branches that were kept (either still ahead of upstream, or refused
// deletion by the VCS tool as "not fully merged").
func (p *Project) PruneHeads(ctx context.Context) ([]ReviewableBranch, error) {
	cb := p.CurrentBranch(ctx)

	refs, err := p.Bare.ListRefs(ctx)
	if err != nil {
		return nil, err
	}

	var kill []string
	for name := range refs {
		if !strings.HasPrefix(name, gitcmd.RefHeads) {
			continue
		}
		short := strings.TrimPrefix(name, gitcmd.RefHeads)
		if cb == "" || short != cb {
			kill = append(kill, short)
		}
	}

	remote, err := p.GetRemote(ctx, p.Remote.Name)
	if err != nil {
		return nil, err
	}
	rev := remote.ToLocal(p.Revision)

	if cb != "" {
		ahead, err := p.Work.RevList(ctx, gitcmd.HEAD+"..."+rev)
		if err != nil {
			return nil, err
		}
		dirty, err := p.IsDirty(ctx, false)
		if err != nil {
			return nil, err
		}
		if len(ahead) == 0 && !dirty {
			if err := p.Work.DetachHead(ctx, gitcmd.HEAD, ""); err != nil {
				return nil, err
			}
			kill = append(kill, cb)
		}
	}

	deleted := make(map[string]bool)
	if len(kill) > 0 {
		old, err := p.Bare.GetHead(ctx)
		if err != nil {
			old = "refs/heads/please_never_use_this_as_a_branch_name"
		}

		if err := p.Bare.DetachHead(ctx, rev, ""); err != nil {
			return nil, err
		}
		args := append([]string{"branch", "-d"}, kill...)
		out, runErr := p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, args...)
		if err := p.Bare.SetHead(ctx, old, ""); err != nil {
			return nil, err
		}
		_ = runErr // refusals for "not fully merged" branches are expected and non-fatal

		for _, line := range splitLines(out) {
			if m := deletedBranchRe.FindStringSubmatch(line); m != nil {
				deleted[m[1]] = true
			}
		}
	}

	kept := make([]string, 0, len(kill)+1)
	for _, name := range kill {
		if !deleted[name] {
			kept = append(kept, name)
		}
	}
	if cb != "" && !contains(kill, cb) {
		kept = append(kept, cb)
	}
	sort.Strings(kept)

	result := make([]ReviewableBranch, 0, len(kept))
	for _, name := range kept {
		branch, err := p.GetBranch(ctx, name)
		if err != nil {
			return nil, err
		}
		base := branch.LocalMerge()
		if base == "" {
			base = rev
		}
		result = append(result, ReviewableBranch{Project: p, Branch: branch, Base: base})
	}
	return result, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
