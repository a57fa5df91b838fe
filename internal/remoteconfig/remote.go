// Package remoteconfig exposes per-project remote and branch tracking
// configuration, read from and written through the bare repository's git
// config rather than held in memory as an independent source of truth.
package remoteconfig

import (
	"context"
	"fmt"
	"strings"

	"github.com/reposync/reposync/internal/gitcmd"
)

// Remote is one named remote binding: its fetch URL, its review (code
// review server) URL, and the fetchspecs that decide which remote-side
// refs it claims.
type Remote struct {
	Name      string
	FetchURL  string
	ReviewURL string
	Fetch     []string
}

// ToLocal maps a remote-side ref name to the local tracking ref this
// remote's first matching fetchspec would write it to (e.g.
// "refs/heads/master" -> "refs/remotes/origin/master").
func (r *Remote) ToLocal(ref string) string {
	for _, spec := range r.Fetch {
		src, dst, ok := strings.Cut(spec, ":")
		if !ok {
			continue
		}
		src = strings.TrimPrefix(src, "+")
		if strings.HasSuffix(src, "/*") && strings.HasSuffix(dst, "/*") {
			prefix := strings.TrimSuffix(src, "*")
			if strings.HasPrefix(ref, prefix) {
				return strings.TrimSuffix(dst, "*") + strings.TrimPrefix(ref, prefix)
			}
			continue
		}
		if src == ref {
			return dst
		}
	}
	return ref
}

// WritesTo reports whether ref falls under one of this remote's fetchspec
// destinations, i.e. whether a fetch from this remote could have produced
// it.
func (r *Remote) WritesTo(ref string) bool {
	for _, spec := range r.Fetch {
		_, dst, ok := strings.Cut(spec, ":")
		if !ok {
			continue
		}
		if strings.HasSuffix(dst, "/*") {
			if strings.HasPrefix(ref, strings.TrimSuffix(dst, "*")) {
				return true
			}
			continue
		}
		if dst == ref {
			return true
		}
	}
	return false
}

// ResetFetch rewrites this remote's fetch refspecs in the repository
// config to the default "+refs/heads/*:refs/remotes/<name>/*" mapping,
// discarding any narrower fetchspec a prior partial clone may have left
// behind.
func (r *Remote) ResetFetch(ctx context.Context, g *gitcmd.Gateway) error {
	r.Fetch = []string{fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", r.Name)}
	key := fmt.Sprintf("remote.%s.fetch", r.Name)
	if _, err := g.Raw(ctx, true, "config", "--unset-all", key); err != nil && !gitcmd.IsExitError(err) {
		return err
	}
	_, err := g.Raw(ctx, true, "config", "--add", key, r.Fetch[0])
	return err
}

// GetRemote reads a remote's configuration (url, review URL, fetchspecs)
// out of the bare repository's git config. It returns a zero-value,
// non-nil Remote with no error when the remote has no config section at
// all, so callers can always dereference the result.
func GetRemote(ctx context.Context, g *gitcmd.Gateway, name string) (*Remote, error) {
	r := &Remote{Name: name}

	url, err := g.RunTrim(ctx, gitcmd.RunOpts{Bare: true}, "config", "--get", "remote."+name+".url")
	if err != nil && !gitcmd.IsExitError(err) {
		return nil, err
	}
	r.FetchURL = url

	review, err := g.RunTrim(ctx, gitcmd.RunOpts{Bare: true}, "config", "--get", "remote."+name+".review")
	if err != nil && !gitcmd.IsExitError(err) {
		return nil, err
	}
	r.ReviewURL = review

	fetchLines, err := g.RunLines(ctx, gitcmd.RunOpts{Bare: true}, "config", "--get-all", "remote."+name+".fetch")
	if err != nil && !gitcmd.IsExitError(err) {
		return nil, err
	}
	r.Fetch = fetchLines

	return r, nil
}

// Save writes r's url, review, and fetch entries into the bare
// repository's git config, replacing whatever was there before.
func (r *Remote) Save(ctx context.Context, g *gitcmd.Gateway) error {
	if _, err := g.Raw(ctx, true, "config", "remote."+r.Name+".url", r.FetchURL); err != nil {
		return err
	}
	if r.ReviewURL != "" {
		if _, err := g.Raw(ctx, true, "config", "remote."+r.Name+".review", r.ReviewURL); err != nil {
			return err
		}
	}
	key := "remote." + r.Name + ".fetch"
	if _, err := g.Raw(ctx, true, "config", "--unset-all", key); err != nil && !gitcmd.IsExitError(err) {
		return err
	}
	for _, spec := range r.Fetch {
		if _, err := g.Raw(ctx, true, "config", "--add", key, spec); err != nil {
			return err
		}
	}
	return nil
}
