package remoteconfig

import "testing"

func TestRemoteToLocal(t *testing.T) {
	r := &Remote{
		Name:  "origin",
		Fetch: []string{"+refs/heads/*:refs/remotes/origin/*"},
	}

	cases := []struct {
		ref  string
		want string
	}{
		{"refs/heads/master", "refs/remotes/origin/master"},
		{"refs/heads/topic/foo", "refs/remotes/origin/topic/foo"},
		{"refs/tags/v1", "refs/tags/v1"},
	}
	for _, c := range cases {
		if got := r.ToLocal(c.ref); got != c.want {
			t.Errorf("ToLocal(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}

func TestRemoteWritesTo(t *testing.T) {
	r := &Remote{
		Name:  "origin",
		Fetch: []string{"+refs/heads/*:refs/remotes/origin/*"},
	}

	if !r.WritesTo("refs/remotes/origin/master") {
		t.Error("expected WritesTo to claim refs/remotes/origin/master")
	}
	if r.WritesTo("refs/remotes/other/master") {
		t.Error("expected WritesTo to reject refs/remotes/other/master")
	}
}

func TestBranchLocalMerge(t *testing.T) {
	b := &Branch{
		Name:  "topic",
		Merge: "refs/heads/master",
		Remote: &Remote{
			Name:  "origin",
			Fetch: []string{"+refs/heads/*:refs/remotes/origin/*"},
		},
	}
	if got, want := b.LocalMerge(), "refs/remotes/origin/master"; got != want {
		t.Errorf("LocalMerge() = %q, want %q", got, want)
	}
}

func TestBranchLocalMergeNoRemote(t *testing.T) {
	b := &Branch{Name: "topic", Merge: "refs/heads/master"}
	if got, want := b.LocalMerge(), "refs/heads/master"; got != want {
		t.Errorf("LocalMerge() = %q, want %q", got, want)
	}
}
