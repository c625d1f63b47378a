package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// sync: one reconciliation pass, or a supervised loop with --interval.
func syncCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the working directory with the persistent mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return appCtx.Syncer.Run()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := appCtx.Syncer.RunEvery(ctx, interval)
			if ctx.Err() != nil {
				// Clean shutdown on signal.
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat every interval until signalled (0 runs once)")
	return cmd
}
