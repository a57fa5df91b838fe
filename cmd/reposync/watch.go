package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reposync/reposync/internal/project"
	"github.com/reposync/reposync/internal/syncengine"
	"github.com/reposync/reposync/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run sync automatically whenever the manifest changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		logger := newLogger(ws.Config, "[watch] ")

		w, err := watch.New(ws.Manifest.Path(), logger)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		runSweep := func() {
			logger.Printf("manifest changed, syncing %d project(s)", len(ws.Projects))
			fresh, err := loadWorkspace()
			if err != nil {
				logger.Printf("reloading workspace: %v", err)
				return
			}
			defer fresh.Cache.Close()

			manifestBranch := fresh.Manifest.ManifestRefBranch()
			netResults := syncengine.RunAll(ctx, fresh.Projects, fresh.Config.Concurrency, func(ctx context.Context, p *project.Project) (bool, error) {
				return syncengine.NetworkHalf(ctx, p, manifestBranch, syncengine.MetaIdentity{})
			})
			var fetched []*project.Project
			for _, r := range netResults {
				if r.OK && r.Err == nil {
					fetched = append(fetched, r.Project)
				}
			}
			syncengine.RunAll(ctx, fetched, fresh.Config.Concurrency, func(ctx context.Context, p *project.Project) (bool, error) {
				return syncengine.LocalHalf(ctx, p)
			})
		}

		logger.Printf("watching %s", ws.Manifest.Path())
		if err := w.Run(ctx, runSweep); err != nil && ctx.Err() == nil {
			return fmt.Errorf("watch: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
