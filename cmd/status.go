package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the study timer running in another terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewCheckpointStore()
		if err != nil {
			return err
		}

		c, err := store.Load()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				cmd.Println("no active session")
				return nil
			}
			return err
		}

		state := c.Phase
		if c.Paused {
			state += " (paused)"
		}
		cmd.Printf("Phase: %s\n", state)
		cmd.Printf("Elapsed: %s\n", c.DisplayTime)
		if c.RecordingMode != "" {
			cmd.Printf("Mode: %s\n", flow.RecordingMode(c.RecordingMode).Label())
		}
		if c.Subject != "" {
			cmd.Printf("Subject: %s\n", c.Subject)
		}
		cmd.Printf("Started: %s\n", c.StartedAt.Format(time.RFC3339))
		cmd.Printf("Updated: %s ago\n", time.Since(c.UpdatedAt).Round(time.Second).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
