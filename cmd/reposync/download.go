package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reposync/reposync/internal/review"
)

var downloadCmd = &cobra.Command{
	Use:   "download <project> <change> <patchset>",
	Short: "Fetch one patch set of a code-review change into FETCH_HEAD",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		projects, err := ws.findProjects([]string{args[0]})
		if err != nil {
			return err
		}
		p := projects[0]

		changeID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("change id must be numeric: %w", err)
		}
		patchID, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("patchset id must be numeric: %w", err)
		}

		dc, err := review.DownloadPatchSet(cmd.Context(), p, changeID, patchID)
		if err != nil {
			return err
		}
		if dc == nil {
			return fmt.Errorf("%s: could not fetch change %d/%d", p.Name, changeID, patchID)
		}

		commits, err := dc.Commits(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: fetched %s at FETCH_HEAD (%d commit(s) not yet in %s)\n", p.Name, dc.Commit, len(commits), dc.Base)
		for _, line := range commits {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
