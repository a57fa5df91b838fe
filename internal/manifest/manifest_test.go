package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `
remotes:
  - name: origin
    fetch: "https://example.invalid/mirror"
    review: "https://review.example.invalid"
default-remote: origin
manifest-branch: master
projects:
  - name: platform/frameworks/base
    path: frameworks/base
    remote: origin
    revision: refs/heads/master
  - name: platform/build
`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndProjects(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	projects, err := m.Projects("/workspace")
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}

	base := projects[0]
	if base.Name != "platform/frameworks/base" {
		t.Errorf("Name = %q", base.Name)
	}
	if base.GitDir != filepath.Join("/workspace", ".repo", "projects", "platform/frameworks/base.git") {
		t.Errorf("GitDir = %q", base.GitDir)
	}
	if base.Remote.FetchURL != "https://example.invalid/mirror" {
		t.Errorf("Remote.FetchURL = %q", base.Remote.FetchURL)
	}
	if m.Path() != path {
		t.Errorf("Path() = %q, want %q", m.Path(), path)
	}

	build := projects[1]
	if build.Revision != "refs/heads/master" {
		t.Errorf("build.Revision = %q, want inherited manifest-branch default", build.Revision)
	}
	if build.RelPath != "platform/build" {
		t.Errorf("build.RelPath = %q, want fallback to project name", build.RelPath)
	}
}

func TestLoadRejectsEmptyProjectList(t *testing.T) {
	path := writeManifest(t, "remotes: []\nprojects: []\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a manifest with no projects")
	}
}
