package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/store"
)

var likeCmd = &cobra.Command{
	Use:   "like <session-id>",
	Short: "Like or unlike a session on the feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		rec, err := repo.ToggleLike(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return err
		}
		verb := "Unliked"
		if rec.Liked {
			verb = "Liked"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d likes)\n", verb, rec.Subject, rec.Likes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(likeCmd)
}
