package syncengine

import (
	"context"
	"fmt"
	"log"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/remoteconfig"
	"github.com/reposync/reposync/internal/review"
	"github.com/reposync/reposync/internal/worktree"
)

// LocalHalf reconciles p's work tree against its manifest-declared
// revision, after a successful NetworkHalf. It returns false when the
// decision requires user intervention (a dirty tree blocking a rebase,
// or a checkout/rebase/reset failure) rather than an error, since those
// are expected, per-project outcomes a caller reports and moves on from.
func LocalHalf(ctx context.Context, p *project.Project) (bool, error) {
	if err := worktree.Init(ctx, p.Bare, p.GitDir, p.WorkTree, p.Revision); err != nil {
		return false, err
	}
	if err := review.CleanPublishedCache(ctx, p); err != nil {
		return false, err
	}

	remote, err := p.GetRemote(ctx, p.Remote.Name)
	if err != nil {
		return false, err
	}
	rev := remote.ToLocal(p.Revision)
	branchName := p.CurrentBranch(ctx)

	if branchName == "" {
		return caseDetached(ctx, p, rev)
	}

	branch, err := p.GetBranch(ctx, branchName)
	if err != nil {
		return false, err
	}
	merge := branch.LocalMerge()

	if merge == "" {
		log.Printf("[%s] leaving %s (does not track any upstream)", p.Name, branchName)
		return checkoutDetach(ctx, p, rev)
	}

	return caseTracking(ctx, p, branch, rev)
}

func caseDetached(ctx context.Context, p *project.Project, rev string) (bool, error) {
	lost, err := p.Work.RevList(ctx, gitcmd.NotRev(rev), gitcmd.HEAD)
	if err != nil {
		return false, err
	}
	if len(lost) > 0 {
		log.Printf("[%s] discarding %d commits", p.Name, len(lost))
	}
	return checkoutDetach(ctx, p, rev)
}

// checkoutDetach checks out rev, treating a failed checkout against a
// repository with no refs at all (a brand-new bare repository) as
// success rather than failure — there is nothing to lose.
func checkoutDetach(ctx context.Context, p *project.Project, rev string) (bool, error) {
	_, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false}, "checkout", "-q", rev, "--")
	if err != nil {
		refs, refErr := p.Bare.ListRefs(ctx)
		if refErr == nil && len(refs) == 0 {
			err = nil
		}
	}
	if err != nil {
		return false, nil
	}
	p.ApplyCopyFiles()
	return true, nil
}

func caseTracking(ctx context.Context, p *project.Project, branch *remoteconfig.Branch, rev string) (bool, error) {
	upstreamGain, err := p.Work.RevList(ctx, gitcmd.NotRev(gitcmd.HEAD), rev)
	if err != nil {
		return false, err
	}

	if pub, ok := review.WasPublished(ctx, p, branch.Name); ok {
		notMerged, err := p.Bare.RevList(ctx, gitcmd.NotRev(rev), pub)
		if err != nil {
			return false, err
		}
		if len(notMerged) > 0 {
			if len(upstreamGain) > 0 {
				log.Printf("[%s] branch %s is published, but is now %d commits behind", p.Name, branch.Name, len(upstreamGain))
				log.Printf("[%s] consider merging or rebasing the unpublished commits", p.Name)
			}
			return true, nil
		}
	}

	merge := branch.LocalMerge()
	oldMerge := merge
	if merge == rev {
		prior, err := p.Bare.RevParse(ctx, true, merge+"@{1}")
		if err == nil && !gitcmd.IsNullOID(prior) {
			oldMerge = prior
		}
	} else {
		log.Printf("[%s] manifest switched from %s to %s", p.Name, merge, rev)
		oldMerge = merge
	}

	var upstreamLost []string
	if rev != oldMerge {
		upstreamLost, err = p.Work.RevList(ctx, gitcmd.NotRev(rev), oldMerge)
		if err != nil {
			return false, err
		}
	}

	if len(upstreamLost) == 0 && len(upstreamGain) == 0 {
		return true, nil
	}

	dirty, err := p.IsDirty(ctx, false)
	if err != nil {
		return false, err
	}
	if dirty {
		log.Printf("[%s] commit (or discard) uncommitted changes before sync", p.Name)
		return false, nil
	}

	if len(upstreamLost) > 0 {
		log.Printf("[%s] discarding %d commits removed from upstream", p.Name, len(upstreamLost))
	}

	branch.Remote = p.Remote
	branch.Merge = p.Revision
	if err := branch.Save(ctx, p.Bare); err != nil {
		return false, err
	}

	myChanges, err := p.Work.RevList(ctx, gitcmd.NotRev(oldMerge), gitcmd.HEAD)
	if err != nil {
		return false, err
	}

	var opErr error
	switch {
	case len(myChanges) > 0:
		opErr = rebase(ctx, p, oldMerge, rev)
	case len(upstreamLost) > 0:
		opErr = resetHard(ctx, p, rev)
	default:
		opErr = fastForward(ctx, p, rev)
	}
	if opErr != nil {
		return false, nil
	}

	p.ApplyCopyFiles()
	return true, nil
}

func rebase(ctx context.Context, p *project.Project, upstream, onto string) error {
	_, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false, DisableEditor: true}, "rebase", "-i", "--onto", onto, upstream)
	if err != nil {
		return fmt.Errorf("%s rebase %s: %w", p.Name, upstream, err)
	}
	return nil
}

func resetHard(ctx context.Context, p *project.Project, rev string) error {
	_, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false}, "reset", "--hard", "-q", rev)
	if err != nil {
		return fmt.Errorf("%s reset --hard %s: %w", p.Name, rev, err)
	}
	return nil
}

func fastForward(ctx context.Context, p *project.Project, head string) error {
	_, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false}, "merge", head)
	if err != nil {
		return fmt.Errorf("%s merge %s: %w", p.Name, head, err)
	}
	return nil
}
