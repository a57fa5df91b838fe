package project

import "testing"

func TestLoadIdentityParsesCommitterString(t *testing.T) {
	p := &Project{}
	m := identRe.FindStringSubmatch("Jane Doe <jane@example.com> 1700000000 +0000\n")
	if m == nil {
		t.Fatal("expected committer-ident regex to match")
	}
	p.userName, p.userEmail = m[1], m[2]
	if p.userName != "Jane Doe" {
		t.Errorf("userName = %q, want %q", p.userName, "Jane Doe")
	}
	if p.userEmail != "jane@example.com" {
		t.Errorf("userEmail = %q, want %q", p.userEmail, "jane@example.com")
	}
}

func TestLoadIdentityNoMatch(t *testing.T) {
	if identRe.FindStringSubmatch("garbage output") != nil {
		t.Error("expected no match for malformed committer-ident string")
	}
}
