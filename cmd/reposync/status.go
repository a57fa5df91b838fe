package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/reposync/reposync/internal/status"
)

var statusCached bool

var statusCmd = &cobra.Command{
	Use:   "status [project...]",
	Short: "Show per-project work tree status",
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

		// Locale-stable ordering for the project blocks themselves; the
		// status lines within each block are already path-sorted.
		col := collate.New(language.Und)
		sort.Slice(projects, func(i, j int) bool {
			return col.CompareString(projects[i].RelPath, projects[j].RelPath) < 0
		})

		ctx := cmd.Context()
		for _, p := range projects {
			if statusCached {
				run, err := ws.Cache.LastSyncRun(ctx, p.Name)
				if err != nil {
					return err
				}
				if run == nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "project %-40s\tlast sync %s (network=%v local=%v)\n",
					p.RelPath+"/", run.RanAt.Format("2006-01-02 15:04:05"), run.NetworkOK, run.LocalOK)
				continue
			}

			lines, err := status.WorkTreeStatus(ctx, p)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			status.Render(os.Stdout, p, p.CurrentBranch(ctx), lines)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusCached, "cached", false, "report the last recorded sync outcome instead of live status")
	rootCmd.AddCommand(statusCmd)
}
