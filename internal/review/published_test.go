package review

import "testing"

func TestHasPrefix(t *testing.T) {
	if !hasPrefix("refs/heads/master", "refs/heads/") {
		t.Error("expected prefix match")
	}
	if hasPrefix("refs/tags/v1", "refs/heads/") {
		t.Error("expected no prefix match")
	}
	if hasPrefix("short", "refs/heads/") {
		t.Error("expected no match when shorter than prefix")
	}
}
