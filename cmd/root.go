package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/config"
	"github.com/fakeyudi/studious/internal/logging"
	"github.com/fakeyudi/studious/internal/profile"
	"github.com/fakeyudi/studious/internal/store"
)

// version is stamped at build time with -ldflags "-X".
var version = "dev"

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// closeLog closes the log file opened for the current command.
var closeLog func() error

var rootCmd = &cobra.Command{
	Use:          "studious",
	Short:        "Time study sessions, log them and track your progress",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// First-run: profile missing → run setup wizard automatically.
		// Only when stdin is an interactive terminal; the MCP server owns stdio.
		if !profile.Exists() && cmd.Name() != "mcp" {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to studious! Looks like this is your first time.")
				if err := runSetup(os.Stdin, os.Stdout); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		activeProfile = nil
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps.
		if activeProfile != nil {
			if cfg.DefaultFormat == "markdown" && activeProfile.DefaultFormat != "" {
				cfg.DefaultFormat = activeProfile.DefaultFormat
			}
			if cfg.DefaultMode == "none" && activeProfile.DefaultMode != "" {
				cfg.DefaultMode = activeProfile.DefaultMode
			}
			if cfg.OutputDir == "." && activeProfile.OutputDir != "" && activeProfile.OutputDir != "." {
				cfg.OutputDir = activeProfile.OutputDir
			}
		}

		config.ApplyEnv(&cfg)
		if err := cfg.ResolvePaths(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		if closeLog != nil {
			closeLog()
		}
		closeLog, err = logging.Setup(cfg.LogLevel)
		if err != nil {
			return err
		}
		slog.Debug("command started", "command", cmd.CommandPath(), "db_path", cfg.DBPath)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog == nil {
			return nil
		}
		err := closeLog()
		closeLog = nil
		return err
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	err := rootCmd.Execute()
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// authorName is the name recorded on new sessions.
func authorName() string {
	if activeProfile != nil {
		return activeProfile.Name
	}
	return ""
}

// openStore opens the configured session database.
func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return s, nil
}
