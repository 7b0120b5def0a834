package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/capture"
	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/session"
	"github.com/fakeyudi/studious/internal/tui"
)

var (
	studyMode    string
	studySubject string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start the interactive study timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := cfg.DefaultMode
		if studyMode != "" {
			mode = studyMode
		}
		prefer, err := flow.ParseRecordingMode(mode)
		if err != nil {
			return err
		}

		checkpoints, err := session.NewCheckpointStore()
		if err != nil {
			return err
		}
		if err := claimCheckpoint(checkpoints); err != nil {
			return err
		}

		if !term.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("study needs an interactive terminal; use 'studious log' to record a session")
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		share := false
		if activeProfile != nil {
			share = activeProfile.ShareByDefault
		}
		return tui.RunTimer(tui.Deps{
			Ctx:         cmd.Context(),
			Device:      capture.NewDirRecorder(cfg.MediaDir),
			Repo:        repo,
			Checkpoints: checkpoints,
			Author:      authorName(),
			Subject:     strings.TrimSpace(studySubject),
			Share:       share,
			PreferMode:  prefer,
			Log:         slog.Default(),
		})
	},
}

// claimCheckpoint refuses to start while another timer is live. A checkpoint
// left behind by a process that no longer exists is discarded.
func claimCheckpoint(store session.CheckpointStore) error {
	cp, err := store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	if processAlive(cp.PID) {
		return fmt.Errorf("session already in progress (started at %s)", cp.StartedAt.Format(time.RFC3339))
	}
	slog.Warn("discarding stale checkpoint", "draft_id", cp.DraftID, "pid", cp.PID)
	return store.Delete()
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

func init() {
	studyCmd.Flags().StringVar(&studyMode, "mode", "", "Preselected recording mode: none, timelapse or ai-evaluation")
	studyCmd.Flags().StringVar(&studySubject, "subject", "", "Subject to study, prefilled in the log form")
	rootCmd.AddCommand(studyCmd)
}

