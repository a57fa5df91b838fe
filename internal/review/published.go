// Package review implements the publish/review lifecycle: tracking
// which local branches have been uploaded for review, enumerating
// branches still eligible for upload, and downloading patch sets back
// from the review server's Gerrit-style change refs.
package review

import (
	"context"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
)

// WasPublished returns the object id refs/published/<branch> pointed at
// the last time it was uploaded, and false if the branch has never been
// published.
func WasPublished(ctx context.Context, p *project.Project, branch string) (string, bool) {
	oid, err := p.Bare.RevParse(ctx, true, gitcmd.RefPublished+branch)
	if err != nil {
		return "", false
	}
	return oid, true
}

// CleanPublishedCache deletes every refs/published/X whose refs/heads/X
// no longer exists, CAS'd on the observed published oid so a concurrent
// publish cannot be silently clobbered.
func CleanPublishedCache(ctx context.Context, p *project.Project) error {
	refs, err := p.Bare.ListRefs(ctx)
	if err != nil {
		return err
	}

	heads := make(map[string]bool)
	canRemove := make(map[string]string)
	for name, oid := range refs {
		switch {
		case hasPrefix(name, gitcmd.RefHeads):
			heads[name] = true
		case hasPrefix(name, gitcmd.RefPublished):
			canRemove[name] = oid
		}
	}

	for name, oid := range canRemove {
		short := name[len(gitcmd.RefPublished):]
		if !heads[gitcmd.RefHeads+short] {
			if err := p.Bare.DeleteRef(ctx, name, oid); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
