// Package syncengine implements the two-half reconciliation algorithm
// that brings a project's bare repository and work tree into line with
// the workspace manifest: a network half that only touches the object
// store, and a local half that only touches the checkout.
package syncengine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
)

// importRepairAllowList is the fixed set of legacy project names whose
// upstream history was rewritten after their initial import. Preserved
// verbatim; never generalize this list.
var importRepairAllowList = map[string]bool{
	"platform/external/iptables": true,
	"platform/external/libpcap":  true,
	"platform/external/tcpdump":  true,
	"platform/external/webkit":   true,
	"platform/system/wlan/ti":    true,
}

// MetaIdentity carries the workspace-manifest-level committer identity
// seeded into a project's bare repository the first time it is created.
type MetaIdentity struct {
	UserName  string
	UserEmail string
}

// NetworkHalf brings p's bare repository up to date with its remotes:
// creating it if necessary, installing remote configuration, fetching,
// running the import-repair fixup, and updating the manifest-mirror ref.
// It returns false (with no error) on a remote fetch failure, since that
// is an expected, reportable outcome rather than a programming error.
func NetworkHalf(ctx context.Context, p *project.Project, manifestBranch string, meta MetaIdentity) (bool, error) {
	if !p.Exists() {
		fmt.Fprintf(os.Stderr, "Initializing project %s ...\n", p.Name)
		if err := initGitDir(ctx, p, meta); err != nil {
			return false, err
		}
	}

	if err := initRemotes(ctx, p); err != nil {
		return false, err
	}

	for _, extra := range p.ExtraRemotes {
		if !fetch(ctx, p.Bare, extra.Name) {
			return false, nil
		}
	}
	if !fetch(ctx, p.Bare, p.Remote.Name) {
		return false, nil
	}

	repairImportErrors(ctx, p)

	if err := initMRef(ctx, p, manifestBranch); err != nil {
		return false, err
	}
	return true, nil
}

func initGitDir(ctx context.Context, p *project.Project, meta MetaIdentity) error {
	if err := os.MkdirAll(p.GitDir, 0o755); err != nil {
		return err
	}
	if _, err := p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, "init", "--bare"); err != nil {
		return err
	}

	hooks := p.GitDir + "/hooks"
	entries, _ := os.ReadDir(hooks)
	for _, e := range entries {
		_ = os.Remove(hooks + "/" + e.Name())
	}

	if meta.UserName != "" {
		if _, err := p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, "config", "user.name", meta.UserName); err != nil {
			return err
		}
	}
	if meta.UserEmail != "" {
		if _, err := p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, "config", "user.email", meta.UserEmail); err != nil {
			return err
		}
	}
	return nil
}

func initRemotes(ctx context.Context, p *project.Project) error {
	if p.Remote.FetchURL != "" {
		remote, err := p.GetRemote(ctx, p.Remote.Name)
		if err != nil {
			return err
		}
		remote.FetchURL = strings.TrimRight(p.Remote.FetchURL, "/") + "/" + p.Name + ".git"
		remote.ReviewURL = p.Remote.ReviewURL
		if err := remote.ResetFetch(ctx, p.Bare); err != nil {
			return err
		}
		if err := remote.Save(ctx, p.Bare); err != nil {
			return err
		}
	}

	for _, extra := range p.ExtraRemotes {
		remote, err := p.GetRemote(ctx, extra.Name)
		if err != nil {
			return err
		}
		remote.FetchURL = extra.FetchURL
		remote.ReviewURL = extra.ReviewURL
		if err := remote.ResetFetch(ctx, p.Bare); err != nil {
			return err
		}
		if err := remote.Save(ctx, p.Bare); err != nil {
			return err
		}
	}
	return nil
}

func fetch(ctx context.Context, bare *gitcmd.Gateway, remoteName string) bool {
	_, err := bare.Run(ctx, gitcmd.RunOpts{Bare: true}, "fetch", remoteName)
	return err == nil
}

// repairImportErrors re-fetches the android-1.0 tag forcibly for a fixed
// allow-list of legacy projects whose history was rewritten after their
// initial import, when the tag points outside the current release
// branch's history. Best-effort: any error here is swallowed.
func repairImportErrors(ctx context.Context, p *project.Project) {
	if !importRepairAllowList[p.Name] {
		return
	}

	remote, err := p.GetRemote(ctx, p.Remote.Name)
	if err != nil {
		return
	}
	relName := remote.ToLocal(gitcmd.RefHeads + "release-1.0")
	tagName := gitcmd.RefTags + "android-1.0"

	outOfHistory, err := p.Bare.RevList(ctx, gitcmd.NotRev(relName), tagName)
	if err != nil || len(outOfHistory) == 0 {
		return
	}
	_, _ = p.Bare.Run(ctx, gitcmd.RunOpts{Bare: true}, "fetch", remote.Name,
		fmt.Sprintf("+%s:%s", tagName, tagName))
}

func initMRef(ctx context.Context, p *project.Project, manifestBranch string) error {
	if manifestBranch == "" {
		return nil
	}
	msg := "manifest set to " + p.Revision
	ref := gitcmd.RefManifest + manifestBranch

	if isObjectID(p.Revision) {
		return p.Bare.UpdateRef(ctx, ref, p.Revision+"^0", "", msg, true)
	}

	remote, err := p.GetRemote(ctx, p.Remote.Name)
	if err != nil {
		return err
	}
	dst := remote.ToLocal(p.Revision)
	_, err = p.Bare.SymbolicRef(ctx, "-m", msg, ref, dst)
	return err
}

func isObjectID(rev string) bool {
	if len(rev) != 40 {
		return false
	}
	for _, c := range rev {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
