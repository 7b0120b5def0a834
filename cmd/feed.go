package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/flow"
)

var (
	feedLimit int
	feedPlain bool
	feedAll   bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List shared study sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		list := repo.ListShared
		if feedAll {
			list = repo.ListSessions
		}
		records, err := list(cmd.Context(), feedLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			if feedAll {
				fmt.Fprintln(out, "No sessions yet. Run 'studious study' to log your first one.")
			} else {
				fmt.Fprintln(out, "No sessions yet. Share one with 'studious log --share', or pass --all.")
			}
			return nil
		}

		items := feed.Items(records, time.Now())
		if feedPlain {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAUTHOR\tSUBJECT\tDURATION\tWHEN\tLIKES")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", it.ID, it.Author, it.Subject, it.Duration, it.Ago, it.Likes)
			}
			return w.Flush()
		}

		for _, it := range items {
			fmt.Fprintf(out, "[%s] %s · %s\n", it.Initials, it.Author, it.Ago)
			mood := it.Mood
			if m, ok := flow.LookupMood(it.Mood); ok {
				mood = m.Emoji + " " + m.Name
			}
			fmt.Fprintf(out, "    %s, %s, %s  %s\n", it.Subject, it.Duration, it.Technique, mood)
			if it.Notes != "" {
				fmt.Fprintf(out, "    %s\n", it.Notes)
			}
			like := "♡"
			if it.Liked {
				like = "♥"
			}
			line := fmt.Sprintf("    %s %d  id:%s", like, it.Likes, it.ID)
			if it.Badge != "" {
				line += "  [" + it.Badge + "]"
			}
			fmt.Fprintln(out, line)
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "n", 20, "Maximum number of sessions to show (0 for all)")
	feedCmd.Flags().BoolVar(&feedPlain, "plain", false, "Tab-separated output for scripts")
	feedCmd.Flags().BoolVar(&feedAll, "all", false, "Include sessions that were not shared")
	rootCmd.AddCommand(feedCmd)
}
