package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/vcserr"
)

// BundleUploader is the external collaborator that actually speaks to a
// code-review server. Its one implementation lives outside this package
// (wired at the CLI layer) so review stays independent of any particular
// transport.
type BundleUploader interface {
	UploadBundle(ctx context.Context, req UploadRequest) error
}

// UploadRequest is everything a BundleUploader needs to post one branch
// for review.
type UploadRequest struct {
	ProjectName string
	Server      string
	Email       string
	DestProject string
	DestBranch  string
	SrcBranch   string
	Bases       []string
}

// GetUploadableBranches returns every reviewable branch in p whose
// published oid (if any) does not already match its current head oid.
func GetUploadableBranches(ctx context.Context, p *project.Project) ([]project.ReviewableBranch, error) {
	refs, err := p.Bare.ListRefs(ctx)
	if err != nil {
		return nil, err
	}

	heads := make(map[string]string)
	pubed := make(map[string]string)
	for name, oid := range refs {
		switch {
		case hasPrefix(name, gitcmd.RefHeads):
			heads[name[len(gitcmd.RefHeads):]] = oid
		case hasPrefix(name, gitcmd.RefPublished):
			pubed[name[len(gitcmd.RefPublished):]] = oid
		}
	}

	var ready []project.ReviewableBranch
	for short, oid := range heads {
		if pubOid, ok := pubed[short]; ok && pubOid == oid {
			continue
		}

		branch, err := p.GetBranch(ctx, short)
		if err != nil {
			return nil, err
		}
		base := branch.LocalMerge()
		if base == "" {
			continue
		}

		rb := project.ReviewableBranch{Project: p, Branch: branch, Base: base}
		commits, err := rb.Commits(ctx)
		if err != nil {
			return nil, err
		}
		if len(commits) > 0 {
			ready = append(ready, rb)
		}
	}
	return ready, nil
}

// UploadForReview uploads branch (or the current branch, if empty) to
// its remote's review server via uploader, then records the upload by
// pointing refs/published/<branch> at the uploaded head.
func UploadForReview(ctx context.Context, p *project.Project, branch string, uploader BundleUploader) error {
	if branch == "" {
		branch = p.CurrentBranch(ctx)
	}
	if branch == "" {
		return fmt.Errorf("project %s: %w", p.Name, vcserr.ErrDetached)
	}

	b, err := p.GetBranch(ctx, branch)
	if err != nil {
		return err
	}
	if b.LocalMerge() == "" {
		return fmt.Errorf("project %s: branch %s: %w", p.Name, branch, vcserr.ErrNoTrackingBranch)
	}
	if b.Remote == nil || b.Remote.ReviewURL == "" {
		remoteName := ""
		if b.Remote != nil {
			remoteName = b.Remote.Name
		}
		return fmt.Errorf("project %s: remote %s: %w", p.Name, remoteName, vcserr.ErrNoReviewURL)
	}

	destBranch := b.Merge
	if !strings.HasPrefix(destBranch, gitcmd.RefHeads) {
		destBranch = gitcmd.RefHeads + destBranch
	}

	refs, err := p.Bare.ListRefs(ctx)
	if err != nil {
		return err
	}
	var bases []string
	for name := range refs {
		if b.Remote.WritesTo(name) {
			bases = append(bases, gitcmd.NotRev(name))
		}
	}
	if len(bases) == 0 {
		return fmt.Errorf("project %s: %w %s", p.Name, vcserr.ErrNoBaseRefs, branch)
	}

	email, err := p.UserEmail(ctx)
	if err != nil {
		return err
	}

	req := UploadRequest{
		ProjectName: p.Name,
		Server:      b.Remote.ReviewURL,
		Email:       email,
		DestProject: p.Name,
		DestBranch:  destBranch,
		SrcBranch:   gitcmd.RefHeads + branch,
		Bases:       bases,
	}
	if err := uploader.UploadBundle(ctx, req); err != nil {
		return err
	}

	msg := fmt.Sprintf("posted to %s for %s", b.Remote.ReviewURL, destBranch)
	return p.Bare.UpdateRef(ctx, gitcmd.RefPublished+branch, gitcmd.RefHeads+branch, "", msg, false)
}
