package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storaged/internal/cgi"
	"storaged/internal/domain"
)

// handle: serve exactly one request, then exit. The dispatcher invokes
// one process per request, delivering fields via the environment and the
// body on stdin; the response goes to stdout.
func handleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handle",
		Short: "Serve one gateway-interface request from env and stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A store directory that cannot be created is fatal before
			// any header is written.
			if err := appCtx.Working.Ensure(); err != nil {
				return err
			}

			resp := appCtx.Handler.Serve(cgi.FromEnv(os.Getenv, cmd.InOrStdin()))
			if err := resp.Emit(cmd.OutOrStdout()); err != nil {
				return err
			}
			if resp.ExitCode != 0 {
				return fmt.Errorf("%w: %s", domain.ErrUnsupportedMethod, resp.Line)
			}
			return nil
		},
	}
}
