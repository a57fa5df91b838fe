package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/reposync/reposync/internal/config"
	"github.com/reposync/reposync/internal/logging"
	"github.com/reposync/reposync/internal/manifest"
	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/statuscache"
)

// workspace bundles everything a subcommand needs after flag parsing:
// the loaded config, manifest, resolved project list, and a status
// cache opened against this workspace's .repo directory.
type workspace struct {
	Root     string
	Config   *config.Config
	Manifest *manifest.Manifest
	Projects []*project.Project
	Cache    *statuscache.Cache
}

func loadWorkspace() (*workspace, error) {
	root, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving --workspace: %w", err)
	}

	cfg, err := config.Load(root, rootCmd.PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if jobsFlag > 0 {
		cfg.Concurrency = jobsFlag
	}

	manifestPath := filepath.Join(root, manifestFlag)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", manifestPath, err)
	}

	projects, err := m.Projects(root)
	if err != nil {
		return nil, fmt.Errorf("resolving projects: %w", err)
	}

	cache, err := statuscache.Open(filepath.Join(root, ".repo", "status.db"))
	if err != nil {
		return nil, fmt.Errorf("opening status cache: %w", err)
	}

	return &workspace{Root: root, Config: cfg, Manifest: m, Projects: projects, Cache: cache}, nil
}

func (w *workspace) findProjects(names []string) ([]*project.Project, error) {
	if len(names) == 0 {
		return w.Projects, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []*project.Project
	for _, p := range w.Projects {
		if wanted[p.Name] {
			out = append(out, p)
			delete(wanted, p.Name)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("no such project in manifest: %s", n)
	}
	return out, nil
}

func newLogger(cfg *config.Config, prefix string) *log.Logger {
	return logging.New(prefix, cfg.LogFile)
}
