package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storaged/internal/app"
)

var appCtx *app.Wire

// Execute runs the storaged CLI.
func Execute() error {
	root := &cobra.Command{
		Use:          "storaged",
		Short:        "Durable key-value CGI store and mirror synchronizer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config{
				DataDir:   viper.GetString("data-dir"),
				MirrorDir: viper.GetString("mirror-dir"),
				LockFile:  viper.GetString("lock-file"),
				LogLevel:  viper.GetString("log-level"),
			}
			wire, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			appCtx = wire
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("data-dir", app.DefaultDataDir, "working directory holding live entries")
	flags.String("mirror-dir", app.DefaultMirrorDir, "persistent mirror directory")
	flags.String("lock-file", "", "lock marker file (default <data-dir>.lock)")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error; empty disables)")

	for _, name := range []string{"data-dir", "mirror-dir", "lock-file", "log-level"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}
	viper.SetEnvPrefix("STORAGED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(handleCmd(), syncCmd(), getCmd(), putCmd(), listCmd())
	return root.Execute()
}
