package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reposync/reposync/internal/review"
)

var uploadProfile string

var uploadCmd = &cobra.Command{
	Use:   "upload [project] [branch]",
	Short: "Upload a topic branch's commits for review",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		var projectName, branch string
		if len(args) > 0 {
			projectName = args[0]
		}
		if len(args) > 1 {
			branch = args[1]
		}

		if uploadProfile != "" {
			profile, ok := ws.Config.UploadProfiles[uploadProfile]
			if !ok {
				return fmt.Errorf("no upload profile named %q", uploadProfile)
			}
			if projectName == "" {
				projectName = profile.DestProject
			}
		}

		targets, err := ws.findProjects(projectArgs(projectName))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		uploader := newHTTPUploader()
		for _, p := range targets {
			if branch == "" {
				ready, err := review.GetUploadableBranches(ctx, p)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p.Name, err)
					continue
				}
				for _, rb := range ready {
					if err := review.UploadForReview(ctx, p, rb.Branch.Name, uploader); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %v\n", p.Name, rb.Branch.Name, err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: uploaded %s\n", p.Name, rb.Branch.Name)
				}
				continue
			}
			if err := review.UploadForReview(ctx, p, branch, uploader); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %v\n", p.Name, branch, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: uploaded %s\n", p.Name, branch)
		}
		return nil
	},
}

func projectArgs(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

func init() {
	uploadCmd.Flags().StringVar(&uploadProfile, "profile", "", "named upload profile from .repo/review-profiles.yaml")
	rootCmd.AddCommand(uploadCmd)
}
