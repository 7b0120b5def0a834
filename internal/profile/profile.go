// Package profile manages the user's persistent studious profile.
// The profile is stored at ~/.config/studious/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/flow"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	Name           string `json:"name"`
	University     string `json:"university,omitempty"`
	DefaultMode    string `json:"default_mode"`   // "none" | "timelapse" | "ai-evaluation"
	DefaultFormat  string `json:"default_format"` // "markdown" | "json"
	OutputDir      string `json:"output_dir"`     // default export output dir
	ShareByDefault bool   `json:"share_by_default"`
}

// Initials is the avatar text shown next to the user's feed entries.
func (p *Profile) Initials() string {
	return feed.Initials(p.Name)
}

// ConfigDir returns the studious config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studious"), nil
}

func profilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found, run 'studious setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// RunSetup runs the interactive setup wizard on in/out and returns the
// resulting profile. If existing is non-nil, it is used as the default for
// each prompt (edit mode).
func RunSetup(in io.Reader, out io.Writer, existing *Profile) (*Profile, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		ans = strings.ToLower(ans)
		return ans == "y" || ans == "yes", nil
	}

	prof := &Profile{
		DefaultMode:   string(flow.ModeNone),
		DefaultFormat: "markdown",
		OutputDir:     ".",
	}
	if existing != nil {
		*prof = *existing
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │   studious, first-time setup    │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	var err error

	prof.Name, err = ask("  Your name (shown on the feed)", prof.Name)
	if err != nil {
		return nil, err
	}

	prof.University, err = ask("  University", prof.University)
	if err != nil {
		return nil, err
	}

	mode, err := ask("  Default recording mode (none/timelapse/ai-evaluation)", prof.DefaultMode)
	if err != nil {
		return nil, err
	}
	if m, perr := flow.ParseRecordingMode(mode); perr == nil {
		prof.DefaultMode = string(m)
	} else {
		fmt.Fprintf(out, "  %v, keeping %q\n", perr, prof.DefaultMode)
	}

	format, err := ask("  Default export format (markdown/json)", prof.DefaultFormat)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		prof.DefaultFormat = "json"
	} else {
		prof.DefaultFormat = "markdown"
	}

	prof.OutputDir, err = ask("  Default export directory", prof.OutputDir)
	if err != nil {
		return nil, err
	}

	prof.ShareByDefault, err = askBool("  Share logged sessions to the feed by default", prof.ShareByDefault)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	return prof, nil
}
