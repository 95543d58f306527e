package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewExpireCommand constructs the `expire` command: sweep expired records.
func NewExpireCommand() *cobra.Command {
	expireCmd := &cobra.Command{
		Use:   "expire",
		Short: "Remove records past their expiry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoffStr, _ := cmd.Flags().GetString("cutoff")
			cutoff, err := parseTime(cutoffStr)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.eng.Expire(cmd.Context(), cutoff, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d record(s)\n", n)
			return nil
		},
	}
	expireCmd.Flags().String("cutoff", "", "Expire records due at or before this time (default now)")
	return expireCmd
}

// NewCleanupCommand constructs the `cleanup` command: drop everything under
// the configured prefix.
func NewCleanupCommand() *cobra.Command {
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete all records, indexes, and the id counter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("cleanup is destructive; pass --yes to confirm")
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return e.eng.FullCleanup(cmd.Context())
		},
	}
	cleanupCmd.Flags().Bool("yes", false, "Confirm deletion")
	return cleanupCmd
}
