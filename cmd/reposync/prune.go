package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune [project...]",
	Short: "Delete local topic branches already merged into their tracked revision",
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
		for _, p := range projects {
			kept, err := p.PruneHeads(ctx)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p.Name, err)
				continue
			}
			for _, rb := range kept {
				commits, err := rb.Commits(ctx)
				if err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s kept, %d commit(s) not yet merged\n", p.Name, rb.Branch.Name, len(commits))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
