package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/export"
	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a studious export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		parser := export.ParserFor(filepath.Ext(path), data)
		e, err := parser.Parse(data)
		if err != nil {
			return err
		}

		if plainOutput {
			printExport(cmd.OutOrStdout(), e)
			return nil
		}
		return tui.Run(e, path)
	},
}

// printExport writes a plain-text rendering of e to w.
func printExport(w io.Writer, e *export.Export) {
	s := e.Stats
	name := e.Profile.Name
	if name == "" {
		name = "You"
	}
	fmt.Fprintln(w, "## Summary")
	fmt.Fprintf(w, "  Name:            %s\n", name)
	if e.Profile.University != "" {
		fmt.Fprintf(w, "  University:      %s\n", e.Profile.University)
	}
	fmt.Fprintf(w, "  Generated:       %s\n", e.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Sessions:        %d\n", s.TotalSessions)
	fmt.Fprintf(w, "  Study time:      %s\n", feed.FormatDuration(s.TotalMinutes))
	fmt.Fprintf(w, "  Current streak:  %d days\n", s.CurrentStreak)
	fmt.Fprintf(w, "  Longest streak:  %d days\n", s.LongestStreak)
	fmt.Fprintf(w, "  Likes received:  %d\n", s.LikesReceived)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Today")
	fmt.Fprintf(w, "  Sessions:  %d\n", e.Today.Sessions)
	fmt.Fprintf(w, "  Minutes:   %d\n", e.Today.Minutes)
	fmt.Fprintf(w, "  Streak:    %d\n", e.Today.Streak)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Achievements")
	for _, a := range e.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %s (%g/%g)\n", mark, a.Title, a.Progress, a.MaxProgress)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Goals")
	for _, g := range e.Goals {
		fmt.Fprintf(w, "  %s: %d%%\n", g.Title, g.Percent())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Sessions")
	if len(e.Sessions) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, r := range e.Sessions {
			fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n", r.LoggedAt.Format("2006-01-02 15:04"), r.Subject,
				feed.FormatDuration(r.DurationMinutes), r.Technique, r.Mood)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Groups")
	if len(e.Groups) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, g := range e.Groups {
			fmt.Fprintf(w, "  %s (%d members)\n", g.Name, g.Members)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
