package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reposync/reposync/internal/reviewstream"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review-server interactions beyond upload/download",
}

var reviewWatchCmd = &cobra.Command{
	Use:   "watch <server-url>",
	Short: "Print patchset status notifications pushed by a review server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		defer ws.Cache.Close()

		logger := newLogger(ws.Config, "[review] ")

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		stream, err := reviewstream.Dial(ctx, args[0], logger)
		if err != nil {
			return err
		}
		defer stream.Close()

		return stream.Watch(ctx, func(n reviewstream.Notification) {
			fmt.Fprintf(cmd.OutOrStdout(), "change %d patchset %d: %s\n", n.ChangeID, n.PatchID, n.Status)
		})
	},
}

func init() {
	reviewCmd.AddCommand(reviewWatchCmd)
	rootCmd.AddCommand(reviewCmd)
}
