// Package worktree populates a project's checkout directory the first
// time it is synced, by symlinking its .git directory into the shared
// bare repository rather than using a VCS-native worktree mechanism —
// every project in a workspace shares one object store this way.
package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/vcserr"
)

// linkNames are the bare-repository entries a work tree's .git directory
// points at via relative symlinks, rather than owning a copy of.
var linkNames = []string{
	"config",
	"description",
	"hooks",
	"info",
	"logs",
	"objects",
	"packed-refs",
	"refs",
	"rr-cache",
	"svn",
}

// Init populates worktree/.git with relative symlinks into gitDir and
// checks out rev, if worktree/.git does not already exist. It is a no-op
// when the work tree is already initialized.
func Init(ctx context.Context, bare *gitcmd.Gateway, gitDir, workTree, rev string) error {
	dotGit := filepath.Join(workTree, ".git")
	if _, err := os.Stat(dotGit); err == nil {
		return nil
	}

	if err := os.MkdirAll(dotGit, 0o755); err != nil {
		return wrapErr(bare.ProjectName, err)
	}

	relGit := relativeGitDir(gitDir, dotGit)
	for _, name := range linkNames {
		target := filepath.Join(relGit, name)
		if err := os.Symlink(target, filepath.Join(dotGit, name)); err != nil {
			return wrapErr(bare.ProjectName, err)
		}
	}

	oid, err := bare.RevParse(ctx, true, rev+"^0")
	if err != nil {
		return wrapErr(bare.ProjectName, err)
	}
	if err := os.WriteFile(filepath.Join(dotGit, gitcmd.HEAD), []byte(oid+"\n"), 0o644); err != nil {
		return wrapErr(bare.ProjectName, err)
	}

	work := gitcmd.New(bare.ProjectName, gitDir, workTree)
	if _, err := work.Run(ctx, gitcmd.RunOpts{Bare: false}, "read-tree", "--reset", "-u", "-v", gitcmd.HEAD); err != nil {
		return wrapErr(bare.ProjectName, err)
	}
	return nil
}

// relativeGitDir computes the relative path from dotGit up to its common
// ancestor with gitDir, then back down to gitDir.
func relativeGitDir(gitDir, dotGit string) string {
	topDir := commonPrefix(gitDir, dotGit)
	if strings.HasSuffix(topDir, string(filepath.Separator)) {
		topDir = strings.TrimSuffix(topDir, string(filepath.Separator))
	} else {
		topDir = filepath.Dir(topDir)
	}

	var rel strings.Builder
	tmp := dotGit
	for topDir != tmp {
		rel.WriteString("../")
		tmp = filepath.Dir(tmp)
	}
	rel.WriteString(gitDir[len(topDir)+1:])
	return rel.String()
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func wrapErr(project string, err error) error {
	if err == nil {
		return nil
	}
	return &vcserr.VcsError{
		Project: project,
		Argv:    []string{"(init work tree)"},
		Stderr:  err.Error(),
		Err:     fmt.Errorf("cannot initialize work tree: %w", err),
	}
}
