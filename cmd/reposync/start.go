package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <name> [project...]",
	Short: "Create a new topic branch tracking the manifest revision",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		name := args[0]
		projects, err := ws.findProjects(args[1:])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		for _, p := range projects {
			if err := p.StartBranch(ctx, name); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p.Name, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: created %s\n", p.Name, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
