package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"storaged/internal/codec"
	"storaged/internal/domain"
	"storaged/internal/lockfile"
)

// Local admin commands working directly on the store under the same lock
// discipline as the request handler.

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := codec.ValidKey(args[0]); err != nil {
				return err
			}
			if err := appCtx.Working.Ensure(); err != nil {
				return err
			}
			handle, err := appCtx.Lock.Acquire(lockfile.Shared)
			if err != nil {
				return err
			}
			defer handle.Release()

			value, err := appCtx.Working.Get(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(value)
			return err
		},
	}
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Store a value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := codec.ValidKey(args[0]); err != nil {
				return err
			}
			if len(args[1]) > domain.MaxValueLen {
				return fmt.Errorf("%w: value exceeds %d bytes", domain.ErrOversizeInput, domain.MaxValueLen)
			}
			if err := appCtx.Working.Ensure(); err != nil {
				return err
			}
			handle, err := appCtx.Lock.Acquire(lockfile.Exclusive)
			if err != nil {
				return err
			}
			defer handle.Release()

			return appCtx.Working.Put(args[0], []byte(args[1]))
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Enumerate stored keys and value sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Working.Ensure(); err != nil {
				return err
			}
			handle, err := appCtx.Lock.Acquire(lockfile.Shared)
			if err != nil {
				return err
			}
			defer handle.Release()

			entries, err := appCtx.Working.Entries()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", e.Key, len(e.Value))
			}
			return nil
		},
	}
}
