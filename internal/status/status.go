// Package status renders a project's working-tree status: which paths
// are staged, changed, or untracked, classified the way `git status`
// classifies them but against the gateway's own diff views rather than
// shelling out to a second status subcommand.
package status

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
)

// Class is how one changed path is classified for rendering.
type Class int

const (
	// Added means the path is staged but not further modified in the
	// work tree.
	Added Class = iota
	// Changed means the path differs from the index in the work tree,
	// whether or not it is also staged.
	Changed
	// Untracked means the path appears only in the untracked-files list.
	Untracked
)

// Line is one rendered status entry.
type Line struct {
	Path    string
	SrcPath string
	Level   string
	IStatus byte // uppercase index status, or '-'
	FStatus byte // lowercase work-tree status, or '-'
	Class   Class
}

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	untrackedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	branchStyle    = lipgloss.NewStyle().Bold(true)
	noBranchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// WorkTreeStatus computes a project's status lines. It returns (nil,
// nil) when the work tree is clean, mirroring the reference behavior of
// emitting nothing for a project with no changes.
func WorkTreeStatus(ctx context.Context, p *project.Project) ([]Line, error) {
	if info, err := os.Stat(p.WorkTree); err != nil || !info.IsDir() {
		return nil, nil
	}

	if err := p.Work.RefreshIndex(ctx); err != nil {
		return nil, err
	}

	staged, err := p.Work.DiffZ(ctx, "diff-index", "-M", "--cached", gitcmd.HEAD)
	if err != nil {
		return nil, err
	}
	unstaged, err := p.Work.DiffZ(ctx, "diff-files")
	if err != nil {
		return nil, err
	}
	untracked, err := p.Work.LsOthers(ctx)
	if err != nil {
		return nil, err
	}
	if len(staged) == 0 && len(unstaged) == 0 && len(untracked) == 0 {
		return nil, nil
	}

	pathSet := make(map[string]bool)
	for path := range staged {
		pathSet[path] = true
	}
	for path := range unstaged {
		pathSet[path] = true
	}
	for _, path := range untracked {
		pathSet[path] = true
	}

	paths := make([]string, 0, len(pathSet))
	for path := range pathSet {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	lines := make([]Line, 0, len(paths))
	for _, path := range paths {
		i, hasI := staged[path]
		f, hasF := unstaged[path]

		line := Line{Path: path, IStatus: '-', FStatus: '-'}
		if hasI {
			line.IStatus = upper(i.Status[0])
			line.SrcPath = i.SrcPath
			line.Level = i.Level
		}
		if hasF {
			line.FStatus = lower(f.Status[0])
		}

		switch {
		case hasI && !hasF:
			line.Class = Added
		case hasI || hasF:
			line.Class = Changed
		default:
			line.Class = Untracked
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Render prints a project's status header and lines, styled by class.
func Render(w *os.File, p *project.Project, branch string, lines []Line) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "project %-40s\t", p.RelPath+"/")
	if branch == "" {
		fmt.Fprintln(w, noBranchStyle.Render("(*** NO BRANCH ***)"))
	} else {
		fmt.Fprintln(w, branchStyle.Render("branch "+branch))
	}

	for _, l := range lines {
		text := l.Path
		if l.SrcPath != "" {
			text = fmt.Sprintf("%s => %s (%s%%)", l.SrcPath, l.Path, l.Level)
		}
		rendered := fmt.Sprintf(" %c%c\t%s", l.IStatus, l.FStatus, text)

		switch l.Class {
		case Added:
			fmt.Fprintln(w, addedStyle.Render(rendered))
		case Changed:
			fmt.Fprintln(w, changedStyle.Render(rendered))
		default:
			fmt.Fprintln(w, untrackedStyle.Render(rendered))
		}
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
