package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.VCSBinary != "git" {
		t.Errorf("VCSBinary = %q, want git", cfg.VCSBinary)
	}
	if cfg.UploadProfiles != nil {
		t.Errorf("UploadProfiles = %v, want nil when no profiles file", cfg.UploadProfiles)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".repo"), 0o755); err != nil {
		t.Fatal(err)
	}
	contents := "concurrency = 8\nvcs_binary = \"git\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(root, ".repo", "config.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadUploadProfiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".repo"), 0o755); err != nil {
		t.Fatal(err)
	}
	contents := "default:\n  dest_project: platform/frameworks/base\n  dest_branch: refs/heads/master\n"
	if err := os.WriteFile(filepath.Join(root, ".repo", "review-profiles.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	profile, ok := cfg.UploadProfiles["default"]
	if !ok {
		t.Fatal("expected a \"default\" upload profile")
	}
	if profile.DestProject != "platform/frameworks/base" {
		t.Errorf("DestProject = %q", profile.DestProject)
	}
}
