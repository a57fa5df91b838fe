package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"golang.org/x/mod/semver"

	"github.com/reposync/reposync/internal/vcserr"
)

var versionRe = regexp.MustCompile(`(\d+\.\d+(\.\d+)?)`)

// NewChecked is New, but first runs "git --version" and rejects a
// binary older than minVersion (a bare "X.Y.Z" or semver "vX.Y.Z"
// string), returning vcserr.ErrVCSNotAvailable rather than surfacing a
// confusing failure deep inside a later sync call.
func NewChecked(ctx context.Context, projectName, gitDir, workTree, minVersion string) (*Gateway, error) {
	g := New(projectName, gitDir, workTree)
	if minVersion == "" {
		return g, nil
	}

	// "--version" needs no repository directory, and GitDir may not exist
	// yet at this point, so this bypasses the gateway's usual Dir
	// selection rather than reusing Run/Raw.
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, g.Binary, "--version")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", vcserr.ErrVCSNotAvailable, err)
	}
	out := stdout.String()

	detected := versionRe.FindString(out)
	if detected == "" {
		return nil, fmt.Errorf("%w: could not parse version from %q", vcserr.ErrVCSNotAvailable, out)
	}

	want := toSemver(minVersion)
	got := toSemver(detected)
	if semver.Compare(got, want) < 0 {
		return nil, fmt.Errorf("%w: found git %s, need at least %s", vcserr.ErrVCSNotAvailable, detected, minVersion)
	}
	return g, nil
}

func toSemver(v string) string {
	if len(v) == 0 || v[0] != 'v' {
		return "v" + v
	}
	return v
}
