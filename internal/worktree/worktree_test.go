package worktree

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativeGitDirSiblingDirs(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".repo", "projects", "foo.git")
	dotGit := filepath.Join(root, "foo", ".git")

	rel := relativeGitDir(gitDir, dotGit)
	want := filepath.Join("..", "..", ".repo", "projects", "foo.git")
	if rel != want {
		t.Errorf("relativeGitDir = %q, want %q", rel, want)
	}
}

func TestRelativeGitDirResolves(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".repo", "projects", "foo.git")
	dotGit := filepath.Join(root, "foo", ".git")

	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dotGit, 0o755); err != nil {
		t.Fatal(err)
	}

	rel := relativeGitDir(gitDir, dotGit)
	resolved := filepath.Clean(filepath.Join(dotGit, rel))
	if resolved != filepath.Clean(gitDir) {
		t.Errorf("resolved %q, want %q", resolved, gitDir)
	}
}
