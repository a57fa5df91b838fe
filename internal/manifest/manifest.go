// Package manifest loads the minimal YAML workspace manifest that
// declares which projects make up a workspace and which remotes they
// track. It is deliberately simple compared to a full manifest format:
// no includes, no remove-project directives, no local overrides.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/remoteconfig"
)

// RemoteDecl is one remote entry in the manifest file.
type RemoteDecl struct {
	Name   string `yaml:"name"`
	Fetch  string `yaml:"fetch"`
	Review string `yaml:"review"`
}

// ProjectDecl is one project entry in the manifest file.
type ProjectDecl struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Remote   string `yaml:"remote"`
	Revision string `yaml:"revision"`
}

// Manifest is the parsed workspace manifest.
type Manifest struct {
	Remotes        []RemoteDecl  `yaml:"remotes"`
	DefaultRemote  string        `yaml:"default-remote"`
	ManifestBranch string        `yaml:"manifest-branch"`
	ProjectDecls   []ProjectDecl `yaml:"projects"`

	path    string
	remotes map[string]RemoteDecl
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	if len(m.ProjectDecls) == 0 {
		return nil, fmt.Errorf("manifest: %s declares no projects", path)
	}

	m.path = path
	m.remotes = make(map[string]RemoteDecl, len(m.Remotes))
	for _, r := range m.Remotes {
		m.remotes[r.Name] = r
	}
	return &m, nil
}

// Path returns the filesystem path this manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// Remote resolves a remote binding by name, returning a ready-to-use
// *remoteconfig.Remote with its default fetchspec already populated.
func (m *Manifest) Remote(name string) (*remoteconfig.Remote, error) {
	decl, ok := m.remotes[name]
	if !ok {
		return nil, fmt.Errorf("manifest: no such remote %q", name)
	}
	return &remoteconfig.Remote{
		Name:      decl.Name,
		FetchURL:  decl.Fetch,
		ReviewURL: decl.Review,
		Fetch:     []string{fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", decl.Name)},
	}, nil
}

// Projects materializes every declared project into a *project.Project,
// with gitdir and worktree computed relative to workspaceRoot
// (".repo/projects/<name>.git" and "<path>" respectively) and its
// Remote bound. A project with no explicit revision inherits
// "refs/heads/<manifest-branch>".
func (m *Manifest) Projects(workspaceRoot string) ([]*project.Project, error) {
	projects := make([]*project.Project, 0, len(m.ProjectDecls))
	for _, decl := range m.ProjectDecls {
		remoteName := decl.Remote
		if remoteName == "" {
			remoteName = m.DefaultRemote
		}
		remote, err := m.Remote(remoteName)
		if err != nil {
			return nil, fmt.Errorf("manifest: project %s: %w", decl.Name, err)
		}

		revision := decl.Revision
		if revision == "" {
			revision = "refs/heads/" + m.ManifestBranch
		}

		relPath := decl.Path
		if relPath == "" {
			relPath = decl.Name
		}

		gitDir := filepath.Join(workspaceRoot, ".repo", "projects", decl.Name+".git")
		workTree := filepath.Join(workspaceRoot, relPath)

		p := project.New(decl.Name, gitDir, workTree, relPath, revision)
		p.Remote = remote
		projects = append(projects, p)
	}
	return projects, nil
}

// ManifestRefBranch returns the short branch name used for the
// manifest-mirror ref (refs/remotes/m/<branch>).
func (m *Manifest) ManifestRefBranch() string {
	return strings.TrimPrefix(m.ManifestBranch, "refs/heads/")
}
