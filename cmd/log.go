package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/session"
)

var (
	logSubject   string
	logTechnique string
	logMood      string
	logNotes     string
	logMinutes   int
	logShare     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a study session without running the timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := flow.Fields{
			Subject:   strings.TrimSpace(logSubject),
			Technique: strings.TrimSpace(logTechnique),
			Mood:      strings.TrimSpace(logMood),
			Notes:     strings.TrimSpace(logNotes),
		}
		if err := f.Validate(); err != nil {
			return err
		}
		if logMinutes <= 0 {
			return fmt.Errorf("--minutes must be at least 1")
		}

		share := logShare
		if !cmd.Flags().Changed("share") && activeProfile != nil {
			share = activeProfile.ShareByDefault
		}

		rec := &session.Record{
			ID:              uuid.NewString(),
			Author:          authorName(),
			Subject:         f.Subject,
			Technique:       f.Technique,
			Mood:            f.Mood,
			Notes:           f.Notes,
			DurationMinutes: logMinutes,
			ElapsedSeconds:  logMinutes * 60,
			RecordingMode:   string(flow.ModeNone),
			Shared:          share,
			LoggedAt:        time.Now(),
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.SaveSession(cmd.Context(), rec); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Great job studying %s for %d minutes!\n", rec.Subject, rec.DurationMinutes)
		fmt.Fprintf(cmd.OutOrStdout(), "Session logged: %s\n", rec.ID)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logSubject, "subject", "", "What you studied (required)")
	logCmd.Flags().StringVar(&logTechnique, "technique", "", "Study technique, e.g. \"Pomodoro Technique\" (required)")
	logCmd.Flags().StringVar(&logMood, "mood", "", "How you felt, e.g. Focused (required)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "What you accomplished")
	logCmd.Flags().IntVar(&logMinutes, "minutes", 0, "Session length in minutes")
	logCmd.Flags().BoolVar(&logShare, "share", false, "Share the session to the feed")
	rootCmd.AddCommand(logCmd)
}
