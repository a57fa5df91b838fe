// Command reposync reconciles a multi-repository workspace described
// by a manifest against its remotes, the same way `repo sync` does for
// AOSP-style checkouts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reposync",
	Short: "Reconcile a multi-repository workspace against its remotes",
	Long: `reposync synchronizes every project in a workspace manifest against its
remotes, manages topic branches meant for code review, and computes which
local commits are ready to upload.

Configuration is read from command flags, REPOSYNC_* environment
variables, and .repo/config.toml under the workspace root, in that
priority order.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceRoot, "workspace", ".", "workspace root (containing .repo/)")
	rootCmd.PersistentFlags().StringVar(&manifestFlag, "manifest", ".repo/manifest.yaml", "manifest path, relative to --workspace")
	rootCmd.PersistentFlags().IntVar(&jobsFlag, "jobs", 0, "concurrency override (0 = use config)")
}

// workspaceRoot, manifestFlag, and jobsFlag are bound to the root
// command's persistent flags in init and read by loadWorkspace.
var (
	workspaceRoot string
	manifestFlag  string
	jobsFlag      int
)
