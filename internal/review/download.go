package review

import (
	"context"
	"fmt"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
)

// DownloadedChange is one patch set fetched from a code-review server's
// Gerrit-style change ref, pinned at the commit FETCH_HEAD resolved to
// right after the fetch.
type DownloadedChange struct {
	Project  *project.Project
	Base     string
	ChangeID int
	PatchID  int
	Commit   string

	commits    []string
	commitsSet bool
}

// Commits lazily computes the abbreviated oneline log of commits on this
// patch set not yet in Base.
func (dc *DownloadedChange) Commits(ctx context.Context) ([]string, error) {
	if dc.commitsSet {
		return dc.commits, nil
	}
	lines, err := dc.Project.Bare.RevList(ctx, "--abbrev-commit", "--pretty=oneline", gitcmd.NotRev(dc.Base), dc.Commit)
	if err != nil {
		return nil, err
	}
	dc.commits = lines
	dc.commitsSet = true
	return dc.commits, nil
}

// DownloadPatchSet fetches a single patch set of a single change from
// p's primary remote into FETCH_HEAD, using the remote's own fetchspecs
// as additional refspecs so the patch set's parents resolve. It returns
// nil, nil (no error) if the fetch fails — a missing patch set is a
// normal, reportable outcome.
func DownloadPatchSet(ctx context.Context, p *project.Project, changeID, patchID int) (*DownloadedChange, error) {
	remote, err := p.GetRemote(ctx, p.Remote.Name)
	if err != nil {
		return nil, err
	}

	changeRef := fmt.Sprintf("refs/changes/%02d/%d/%d", changeID%100, changeID, patchID)
	args := append([]string{"fetch", remote.Name, changeRef}, remote.Fetch...)
	if _, err := p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, args...); err != nil {
		return nil, nil
	}

	commit, err := p.Bare.RevParse(ctx, true, "FETCH_HEAD")
	if err != nil {
		return nil, err
	}

	return &DownloadedChange{
		Project:  p,
		Base:     remote.ToLocal(p.Revision),
		ChangeID: changeID,
		PatchID:  patchID,
		Commit:   commit,
	}, nil
}
