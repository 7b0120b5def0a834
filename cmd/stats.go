package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/export"
	"github.com/fakeyudi/studious/internal/profile"
	"github.com/fakeyudi/studious/internal/tui"
)

var statsPlain bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your study statistics, achievements and goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildExport(cmd)
		if err != nil {
			return err
		}
		if statsPlain || !term.IsTerminal(os.Stdout.Fd()) {
			printExport(cmd.OutOrStdout(), e)
			return nil
		}
		return tui.Run(e, "stats")
	},
}

// buildExport snapshots the stored sessions and groups for the active profile.
func buildExport(cmd *cobra.Command) (*export.Export, error) {
	repo, err := openStore()
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	records, err := repo.AllSessions(cmd.Context())
	if err != nil {
		return nil, err
	}
	groups, err := repo.ListGroups(cmd.Context())
	if err != nil {
		return nil, err
	}
	var prof profile.Profile
	if activeProfile != nil {
		prof = *activeProfile
	}
	return export.Build(prof, records, groups, time.Now()), nil
}

func init() {
	statsCmd.Flags().BoolVar(&statsPlain, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(statsCmd)
}
