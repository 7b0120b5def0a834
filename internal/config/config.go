package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/logging"
	"github.com/fakeyudi/studious/internal/session"
)

// Config holds all configurable studious settings.
type Config struct {
	DBPath        string `json:"db_path"`        // SQLite database file
	MediaDir      string `json:"media_dir"`      // root of the capture directories
	DefaultMode   string `json:"default_mode"`   // "none" | "timelapse" | "ai-evaluation"
	DefaultFormat string `json:"default_format"` // "markdown" | "json"
	OutputDir     string `json:"output_dir"`
	LogLevel      string `json:"log_level"` // "debug" | "info" | "warn" | "error"
}

// Environment variables that override file settings.
const (
	EnvDBPath   = "STUDIOUS_DB_PATH"
	EnvMediaDir = "STUDIOUS_MEDIA_DIR"
	EnvLogLevel = "STUDIOUS_LOG_LEVEL"
)

// Defaults returns sensible default configuration values. Paths are left
// empty and filled by ResolvePaths.
func Defaults() Config {
	return Config{
		DefaultMode:   string(flow.ModeNone),
		DefaultFormat: "markdown",
		OutputDir:     ".",
		LogLevel:      "info",
	}
}

// LoadGlobal reads ~/.config/studious/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "studious", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .studiousconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".studiousconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		override(&result.DBPath, c.DBPath)
		override(&result.MediaDir, c.MediaDir)
		override(&result.DefaultMode, c.DefaultMode)
		override(&result.DefaultFormat, c.DefaultFormat)
		override(&result.OutputDir, c.OutputDir)
		override(&result.LogLevel, c.LogLevel)
	}
	return result
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without replacing variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// ApplyEnv overrides cfg with any STUDIOUS_* variables that are set.
func ApplyEnv(cfg *Config) {
	override(&cfg.DBPath, os.Getenv(EnvDBPath))
	override(&cfg.MediaDir, os.Getenv(EnvMediaDir))
	override(&cfg.LogLevel, strings.ToLower(os.Getenv(EnvLogLevel)))
}

// ResolvePaths fills DBPath and MediaDir from the studious data directory
// when they are unset.
func (c *Config) ResolvePaths() error {
	if c.DBPath != "" && c.MediaDir != "" {
		return nil
	}
	dir, err := session.DataDir()
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "studious.db")
	}
	if c.MediaDir == "" {
		c.MediaDir = filepath.Join(dir, "media")
	}
	return nil
}

// Validate rejects unknown modes, formats and log levels. A valid log level
// is rewritten in its canonical lowercase form.
func (c *Config) Validate() error {
	var errs []error
	if _, err := flow.ParseRecordingMode(c.DefaultMode); err != nil {
		errs = append(errs, fmt.Errorf("default_mode: %w", err))
	}
	switch c.DefaultFormat {
	case "markdown", "json":
	default:
		errs = append(errs, fmt.Errorf("default_format: unknown format %q (want markdown or json)", c.DefaultFormat))
	}
	if lvl, err := logging.ParseLevel(strings.TrimSpace(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q (want debug, info, warn or error)", c.LogLevel))
	} else {
		c.LogLevel = strings.ToLower(lvl.String())
	}
	return errors.Join(errs...)
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
