// Package project models one checked-out repository within a workspace:
// its identity, its dirty/clean state, and the branch-management
// operations that act on it. It is the aggregation point above
// internal/gitcmd (which only runs VCS subcommands) and
// internal/remoteconfig (which only reads/writes tracking config).
package project

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/remoteconfig"
)

// CopyFile is a (source-in-worktree, absolute-destination) pair the
// manifest asked to have mirrored out of this project after every sync.
type CopyFile struct {
	Src string
	Dst string
}

// Project is one manifest-declared repository: a logical name, a bare
// object/ref store, a checkout, and the remote it tracks.
type Project struct {
	Name     string
	GitDir   string
	WorkTree string
	RelPath  string
	Revision string

	Remote       *remoteconfig.Remote
	ExtraRemotes []*remoteconfig.Remote
	CopyFiles    []CopyFile

	Bare *gitcmd.Gateway
	Work *gitcmd.Gateway

	identLoaded bool
	userName    string
	userEmail   string
}

var identRe = regexp.MustCompile(`^(.*) <([^>]*)> `)

// New constructs a Project and its bound gateways. Callers populate
// Remote/ExtraRemotes/CopyFiles afterward, once the manifest is parsed.
func New(name, gitDir, workTree, relPath, revision string) *Project {
	return &Project{
		Name:     name,
		GitDir:   gitDir,
		WorkTree: workTree,
		RelPath:  relPath,
		Revision: revision,
		Bare:     gitcmd.New(name, gitDir, ""),
		Work:     gitcmd.New(name, gitDir, workTree),
	}
}

// Exists reports whether the bare repository directory is present.
func (p *Project) Exists() bool {
	info, err := os.Stat(p.GitDir)
	return err == nil && info.IsDir()
}

// CurrentBranch returns the short name of the checked-out branch, or ""
// if the work tree's HEAD is detached (or unreadable).
func (p *Project) CurrentBranch(ctx context.Context) string {
	head, err := p.Work.GetHead(ctx)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(head, gitcmd.RefHeads) {
		return strings.TrimPrefix(head, gitcmd.RefHeads)
	}
	return ""
}

// IsDirty reports whether the work tree has staged changes, unstaged
// changes, or (if includeUntracked) untracked files.
func (p *Project) IsDirty(ctx context.Context, includeUntracked bool) (bool, error) {
	if err := p.Work.RefreshIndex(ctx); err != nil {
		return false, err
	}

	staged, err := p.Work.DiffZ(ctx, "diff-index", "-M", "--cached", gitcmd.HEAD)
	if err != nil {
		return false, err
	}
	if len(staged) > 0 {
		return true, nil
	}

	unstaged, err := p.Work.DiffZ(ctx, "diff-files")
	if err != nil {
		return false, err
	}
	if len(unstaged) > 0 {
		return true, nil
	}

	if includeUntracked {
		untracked, err := p.Work.LsOthers(ctx)
		if err != nil {
			return false, err
		}
		if len(untracked) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// UserName returns the committer name the VCS tool would use for this
// project, loading and caching it from the committer-ident string on
// first use.
func (p *Project) UserName(ctx context.Context) (string, error) {
	if err := p.loadIdentity(ctx); err != nil {
		return "", err
	}
	return p.userName, nil
}

// UserEmail returns the committer email the VCS tool would use for this
// project — very likely the user's code-review login.
func (p *Project) UserEmail(ctx context.Context) (string, error) {
	if err := p.loadIdentity(ctx); err != nil {
		return "", err
	}
	return p.userEmail, nil
}

func (p *Project) loadIdentity(ctx context.Context) error {
	if p.identLoaded {
		return nil
	}
	ident, err := p.Bare.CommitterIdent(ctx)
	if err != nil {
		return err
	}
	if m := identRe.FindStringSubmatch(ident); m != nil {
		p.userName = m[1]
		p.userEmail = m[2]
	}
	p.identLoaded = true
	return nil
}

// GetRemote reads a single remote's configuration from the bare
// repository.
func (p *Project) GetRemote(ctx context.Context, name string) (*remoteconfig.Remote, error) {
	return remoteconfig.GetRemote(ctx, p.Bare, name)
}

// GetBranch reads a single branch's tracking configuration from the bare
// repository.
func (p *Project) GetBranch(ctx context.Context, name string) (*remoteconfig.Branch, error) {
	return remoteconfig.GetBranch(ctx, p.Bare, name)
}
