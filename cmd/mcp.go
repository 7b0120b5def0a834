package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve read-only study data to MCP clients over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		slog.Info("mcp server starting", "db_path", cfg.DBPath)
		return mcpserver.Serve(&mcpserver.Handlers{Repo: repo, Log: slog.Default()}, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
