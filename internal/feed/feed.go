// Package feed turns logged sessions into display rows for the activity feed.
package feed

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/fakeyudi/studious/internal/session"
)

// FormatDuration renders minutes as "2h 15m", or "45m" under an hour.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatAgo renders how long before now t was, in whole minutes under an
// hour, whole hours under a day and whole days beyond that.
func FormatAgo(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
	return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
}

// Initials returns up to two uppercase initials for name.
func Initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(w)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Item is one row of the feed.
type Item struct {
	ID        string `json:"id"`
	Initials  string `json:"initials"`
	Author    string `json:"author"`
	Subject   string `json:"subject"`
	Technique string `json:"technique"`
	Mood      string `json:"mood"`
	Notes     string `json:"notes,omitempty"`
	Duration  string `json:"duration"`
	Ago       string `json:"ago"`
	Likes     int    `json:"likes"`
	Liked     bool   `json:"liked"`
	Badge     string `json:"badge,omitempty"`
}

// Items converts records, newest first, into feed rows relative to now.
// Records without an author are shown as "You".
func Items(records []session.Record, now time.Time) []Item {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		author := r.Author
		if author == "" {
			author = "You"
		}
		items = append(items, Item{
			ID:        r.ID,
			Initials:  Initials(author),
			Author:    author,
			Subject:   r.Subject,
			Technique: r.Technique,
			Mood:      r.Mood,
			Notes:     r.Notes,
			Duration:  FormatDuration(r.DurationMinutes),
			Ago:       FormatAgo(now, r.LoggedAt),
			Likes:     r.Likes,
			Liked:     r.Liked,
			Badge:     badge(r.RecordingMode),
		})
	}
	return items
}

func badge(mode string) string {
	switch mode {
	case "timelapse":
		return "time-lapse"
	case "ai-evaluation":
		return "AI evaluated"
	}
	return ""
}
