package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fakeyudi/studious/internal/feed"
)

const (
	versionSentinel = "<!-- studious-export-version: 1 -->"
	dataPrefix      = "<!-- studious-data: "
	dataSuffix      = " -->"
)

// Renderer serializes an Export to bytes.
type Renderer interface {
	Render(e *Export) ([]byte, error)
}

// RendererFor returns the renderer for format ("markdown" or "json").
func RendererFor(format string) Renderer {
	if format == "json" {
		return &JSONRenderer{}
	}
	return &MarkdownRenderer{}
}

// JSONRenderer renders an Export as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(e *Export) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// MarkdownRenderer renders an Export as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(e *Export) ([]byte, error) {
	jsonBytes, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder

	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	name := e.Profile.Name
	if name == "" {
		name = "Anonymous"
	}
	fmt.Fprintf(&sb, "# Studious: %s, %s\n\n", name, e.GeneratedAt.Format("2006-01-02 15:04 MST"))

	// ## Summary
	sb.WriteString("## Summary\n\n")
	if e.Profile.University != "" {
		fmt.Fprintf(&sb, "- University: %s\n", e.Profile.University)
	}
	fmt.Fprintf(&sb, "- Study sessions: %d\n", e.Stats.TotalSessions)
	fmt.Fprintf(&sb, "- Total time: %s\n", feed.FormatDuration(e.Stats.TotalMinutes))
	fmt.Fprintf(&sb, "- Average session: %s\n", feed.FormatDuration(e.Stats.AverageSessionMinutes))
	fmt.Fprintf(&sb, "- Current streak: %d days\n", e.Stats.CurrentStreak)
	fmt.Fprintf(&sb, "- Longest streak: %d days\n", e.Stats.LongestStreak)
	fmt.Fprintf(&sb, "- Likes received: %d\n", e.Stats.LikesReceived)
	fmt.Fprintf(&sb, "- Groups: %d joined, %d created\n", e.Stats.GroupsJoined, e.Stats.GroupsCreated)
	sb.WriteString("\n")

	// ## Today
	sb.WriteString("## Today\n\n")
	fmt.Fprintf(&sb, "- Sessions: %d\n", e.Today.Sessions)
	fmt.Fprintf(&sb, "- Time: %s\n", feed.FormatDuration(e.Today.Minutes))
	sb.WriteString("\n")

	// ## Achievements
	sb.WriteString("## Achievements\n\n")
	for _, a := range e.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(&sb, "- %s **%s**: %s", mark, a.Title, a.Description)
		if !a.Unlocked {
			fmt.Fprintf(&sb, " (%g/%g)", a.Progress, a.MaxProgress)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// ## Goals
	sb.WriteString("## Goals\n\n")
	for _, g := range e.Goals {
		fmt.Fprintf(&sb, "- %s: %d%% complete\n", g.Title, g.Percent())
	}
	sb.WriteString("\n")

	// ## Sessions
	sb.WriteString("## Sessions\n\n")
	if len(e.Sessions) == 0 {
		sb.WriteString("_No study sessions logged._\n")
	} else {
		sb.WriteString("| Date | Subject | Technique | Mood | Duration | Recording |\n")
		sb.WriteString("|------|---------|-----------|------|----------|-----------|\n")
		for _, s := range e.Sessions {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				s.LoggedAt.Format("2006-01-02 15:04"),
				cell(s.Subject), cell(s.Technique), cell(s.Mood),
				feed.FormatDuration(s.DurationMinutes),
				s.RecordingMode,
			)
		}
	}
	sb.WriteString("\n")

	// ## Groups
	sb.WriteString("## Groups\n\n")
	if len(e.Groups) == 0 {
		sb.WriteString("_No study groups._\n")
	} else {
		for _, g := range e.Groups {
			role := "member"
			switch {
			case g.Owner:
				role = "owner"
			case !g.Joined:
				role = "not joined"
			}
			fmt.Fprintf(&sb, "- %s (%d members, %s)\n", g.Name, g.Members, role)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// cell escapes table delimiters in user text.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
