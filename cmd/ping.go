package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the session store is reachable and writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		id, err := repo.WriteConnectionTest(cmd.Context())
		if err != nil {
			return fmt.Errorf("connection test: %w", err)
		}
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Connected to %s (test row %s)\n", cfg.DBPath, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
