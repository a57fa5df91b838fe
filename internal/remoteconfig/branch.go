package remoteconfig

import (
	"context"
	"fmt"

	"github.com/reposync/reposync/internal/gitcmd"
)

// Branch is the tracking configuration for one local branch: which
// remote it follows and which upstream ref it merges from. LocalMerge is
// derived, not stored, so it always reflects the remote's current
// fetchspecs.
type Branch struct {
	Name   string
	Remote *Remote
	Merge  string
}

// LocalMerge is the local tracking ref Merge resolves to through the
// branch's remote, e.g. "refs/remotes/origin/master".
func (b *Branch) LocalMerge() string {
	if b.Remote == nil {
		return b.Merge
	}
	return b.Remote.ToLocal(b.Merge)
}

// GetBranch reads a branch's tracking configuration (branch.<name>.remote,
// branch.<name>.merge) out of the bare repository's git config. Name
// alone (no Remote) is returned, with a nil error, when the branch has no
// tracking configuration.
func GetBranch(ctx context.Context, g *gitcmd.Gateway, name string) (*Branch, error) {
	b := &Branch{Name: name}

	remoteName, err := g.RunTrim(ctx, gitcmd.RunOpts{Bare: true}, "config", "--get", "branch."+name+".remote")
	if err != nil && !gitcmd.IsExitError(err) {
		return nil, err
	}
	if remoteName == "" {
		return b, nil
	}

	remote, err := GetRemote(ctx, g, remoteName)
	if err != nil {
		return nil, err
	}
	b.Remote = remote

	merge, err := g.RunTrim(ctx, gitcmd.RunOpts{Bare: true}, "config", "--get", "branch."+name+".merge")
	if err != nil && !gitcmd.IsExitError(err) {
		return nil, err
	}
	b.Merge = merge

	return b, nil
}

// Save writes b's remote and merge target into branch.<name>.remote and
// branch.<name>.merge.
func (b *Branch) Save(ctx context.Context, g *gitcmd.Gateway) error {
	if b.Remote == nil {
		return fmt.Errorf("remoteconfig: cannot save branch %q with no remote", b.Name)
	}
	if _, err := g.Raw(ctx, true, "config", "branch."+b.Name+".remote", b.Remote.Name); err != nil {
		return err
	}
	_, err := g.Raw(ctx, true, "config", "branch."+b.Name+".merge", b.Merge)
	return err
}

// DeleteBranchConfig removes a branch's tracking configuration section
// entirely, called once its local ref has been deleted.
func DeleteBranchConfig(ctx context.Context, g *gitcmd.Gateway, name string) error {
	_, err := g.Raw(ctx, true, "config", "--remove-section", "branch."+name)
	if err != nil && !gitcmd.IsExitError(err) {
		return err
	}
	return nil
}
