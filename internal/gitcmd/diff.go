package gitcmd

import (
	"context"
	"strings"
)

// DiffEntry is a flat record for one changed path, replacing the nested
// per-entry class the reference implementation used. Level is the
// similarity/dissimilarity percentage for rename/copy entries, and is
// empty otherwise.
type DiffEntry struct {
	Path    string
	SrcPath string
	OldMode string
	NewMode string
	OldID   string
	NewID   string
	Status  string
	Level   string
}

// DiffZ runs a NUL-delimited diff subcommand (diff-index or diff-files)
// against the work tree and parses its output into a path->entry mapping.
//
// The wire format interleaves a "<colon><old_mode> <new_mode> <old_id>
// <new_id> <status>[<level>]" record with the path, and for rename/copy
// entries a second path field (the destination) follows the first (the
// source).
func (g *Gateway) DiffZ(ctx context.Context, kind string, args ...string) (map[string]DiffEntry, error) {
	cmdArgs := append([]string{kind, "-z"}, args...)
	out, err := g.Run(ctx, RunOpts{Bare: false}, cmdArgs...)
	if err != nil {
		return nil, err
	}

	result := make(map[string]DiffEntry)
	fields := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	for i := 0; i < len(fields); {
		info := fields[i]
		i++
		if info == "" || i >= len(fields) {
			break
		}
		path := fields[i]
		i++

		entry, ok := parseDiffInfo(info)
		if !ok {
			continue
		}
		entry.Path = path

		if entry.Status == "R" || entry.Status == "C" {
			entry.SrcPath = path
			if i >= len(fields) {
				break
			}
			entry.Path = fields[i]
			i++
		}
		result[entry.Path] = entry
	}
	return result, nil
}

// parseDiffInfo parses the ":<old_mode> <new_mode> <old_id> <new_id>
// <status>[<level>]" record diff-index/diff-files emit ahead of each path.
func parseDiffInfo(info string) (DiffEntry, bool) {
	info = strings.TrimPrefix(info, ":")
	fields := strings.Fields(info)
	if len(fields) != 5 {
		return DiffEntry{}, false
	}

	state := fields[4]
	entry := DiffEntry{
		OldMode: fields[0],
		NewMode: fields[1],
		OldID:   fields[2],
		NewID:   fields[3],
	}
	if len(state) == 1 {
		entry.Status = state
	} else {
		entry.Status = state[:1]
		entry.Level = strings.TrimLeft(state[1:], "0")
	}
	return entry, true
}

// LsOthers returns the list of untracked, non-ignored paths in the work
// tree.
func (g *Gateway) LsOthers(ctx context.Context) ([]string, error) {
	out, err := g.Run(ctx, RunOpts{Bare: false}, "ls-files", "-z", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	out = strings.TrimSuffix(out, "\x00")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\x00"), nil
}

// RefreshIndex refreshes the index against the work tree, ignoring
// unmerged entries and missing files, ahead of a dirty-check or status
// render. Callers should call this before DiffZ("diff-index", ...).
func (g *Gateway) RefreshIndex(ctx context.Context) error {
	_, err := g.Run(ctx, RunOpts{Bare: false}, "update-index", "-q", "--unmerged", "--ignore-missing", "--refresh")
	return err
}
