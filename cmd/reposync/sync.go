package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reposync/reposync/internal/gitcmd"
	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/syncengine"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync [project...]",
	Short: "Fetch and reconcile every project against its manifest revision",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		projects, err := ws.findProjects(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		meta := syncengine.MetaIdentity{}
		manifestBranch := ws.Manifest.ManifestRefBranch()

		netResults := syncengine.RunAll(ctx, projects, ws.Config.Concurrency, func(ctx context.Context, p *project.Project) (bool, error) {
			return syncengine.NetworkHalf(ctx, p, manifestBranch, meta)
		})
		reportResults(cmd, "network", netResults)
		netOK := make(map[*project.Project]bool, len(netResults))
		for _, r := range netResults {
			netOK[r.Project] = r.OK && r.Err == nil
		}

		interactive := term.IsTerminal(int(os.Stdout.Fd())) && !syncForce

		localResults := syncengine.RunAll(ctx, projects, ws.Config.Concurrency, func(ctx context.Context, p *project.Project) (bool, error) {
			if !netOK[p] {
				err := fmt.Errorf("local half skipped after network failure")
				recordRun(ws, p.Name, false, false, err)
				return false, err
			}
			ok, err := syncengine.LocalHalf(ctx, p)
			if err != nil || ok {
				recordRun(ws, p.Name, true, ok, err)
				return ok, err
			}
			if !interactive {
				recordRun(ws, p.Name, true, false, nil)
				return false, nil
			}
			if retryAfterStash(ctx, p) {
				ok, err = syncengine.LocalHalf(ctx, p)
			}
			recordRun(ws, p.Name, true, ok, err)
			return ok, err
		})
		reportResults(cmd, "local", localResults)

		for _, r := range localResults {
			if !r.OK || r.Err != nil {
				return fmt.Errorf("one or more projects did not sync cleanly")
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "never prompt; leave dirty projects as Refused-dirty")
	rootCmd.AddCommand(syncCmd)
}

// retryAfterStash prompts (when attached to a terminal) to stash a
// dirty work tree and retry the reconciliation once. It never runs in
// --force / non-interactive mode, matching the CLI-level interactivity
// gate spec.md leaves to the caller rather than the Sync state machine.
func retryAfterStash(ctx context.Context, p *project.Project) bool {
	dirty, err := p.IsDirty(ctx, false)
	if err != nil || !dirty {
		return false
	}

	var stash bool
	err = huh.NewConfirm().
		Title(fmt.Sprintf("%s has uncommitted changes — stash and retry?", p.Name)).
		Value(&stash).
		Run()
	if err != nil || !stash {
		return false
	}

	if _, err := p.Work.Run(ctx, gitcmd.RunOpts{Bare: false}, "stash"); err != nil {
		return false
	}
	return true
}

func reportResults(cmd *cobra.Command, phase string, results []syncengine.Result) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: error: %v\n", r.Project.Name, phase, r.Err)
		case !r.OK:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: refused\n", r.Project.Name, phase)
		}
	}
}

func recordRun(ws *workspace, projectName string, networkOK, localOK bool, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	_ = ws.Cache.RecordSyncRun(context.Background(), projectName, networkOK, localOK, msg)
}
