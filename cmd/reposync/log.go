package main

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/reposync/reposync/internal/project"
)

var logSince string

var logCmd = &cobra.Command{
	Use:   "log <project> <branch>",
	Short: "Show commit date and log for a reviewable branch",
	Args:  cobra.ExactArgs(2),
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
		branchName := args[1]

		since, err := resolveSince(logSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		ctx := cmd.Context()
		branch, err := p.GetBranch(ctx, branchName)
		if err != nil {
			return err
		}
		rb := project.ReviewableBranch{Project: p, Branch: branch, Base: branch.LocalMerge()}

		date, err := rb.Date(ctx, since)
		if err != nil {
			return err
		}
		if date == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s has no commits since %s\n", p.Name, branchName, logSince)
			return nil
		}

		commits, err := rb.Commits(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s last committed %s\n", p.Name, branchName, date)
		for _, line := range commits {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
		}
		return nil
	},
}

// resolveSince parses a natural-language phrase ("3 days ago",
// "last monday") into an RFC3339 timestamp git log --since accepts. An
// empty phrase resolves to an empty string (no filter).
func resolveSince(phrase string) (string, error) {
	if phrase == "" {
		return "", nil
	}
	w := when.New(nil)
	w.Add(common.All...)
	w.Add(en.All...)

	r, err := w.Parse(phrase, time.Now())
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", fmt.Errorf("could not understand %q as a date or duration", phrase)
	}
	return r.Time.Format(time.RFC3339), nil
}

func init() {
	logCmd.Flags().StringVar(&logSince, "since", "", "natural-language lower bound, e.g. \"2 weeks ago\"")
	rootCmd.AddCommand(logCmd)
}
