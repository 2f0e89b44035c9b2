package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the completion cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove every cached completion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := setup(cmd, *root)
			if err != nil {
				return err
			}
			defer deps.Close()
			if err := deps.PurgeCache(cmd.Context()); err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache purged.")
			return nil
		},
	})
	return cmd
}
