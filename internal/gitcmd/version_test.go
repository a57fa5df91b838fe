package gitcmd

import "testing"

func TestToSemver(t *testing.T) {
	cases := map[string]string{
		"1.7.2":  "v1.7.2",
		"v2.40":  "v2.40",
		"2.40.1": "v2.40.1",
	}
	for in, want := range cases {
		if got := toSemver(in); got != want {
			t.Errorf("toSemver(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVersionRe(t *testing.T) {
	got := versionRe.FindString("git version 2.40.1.windows.1")
	if got != "2.40.1" {
		t.Errorf("versionRe match = %q, want 2.40.1", got)
	}
}
