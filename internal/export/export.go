// Package export renders a profile snapshot (sessions, stats, achievements)
// to a shareable file and parses it back.
package export

import (
	"time"

	"github.com/fakeyudi/studious/internal/profile"
	"github.com/fakeyudi/studious/internal/session"
	"github.com/fakeyudi/studious/internal/stats"
)

// Export is the complete, renderable snapshot of a user's study history.
type Export struct {
	Profile      profile.Profile     `json:"profile"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Stats        stats.UserStats     `json:"stats"`
	Today        stats.Today         `json:"today"`
	Achievements []stats.Achievement `json:"achievements"`
	Goals        []stats.Goal        `json:"goals"`
	Sessions     []session.Record    `json:"sessions"`
	Groups       []session.Group     `json:"groups"`
}

// Build assembles an Export from the stored records and groups as of now.
func Build(prof profile.Profile, records []session.Record, groups []session.Group, now time.Time) *Export {
	s, today := stats.Compute(records, groups, now)
	if records == nil {
		records = []session.Record{}
	}
	if groups == nil {
		groups = []session.Group{}
	}
	return &Export{
		Profile:      prof,
		GeneratedAt:  now,
		Stats:        s,
		Today:        today,
		Achievements: stats.Achievements(s, records),
		Goals:        stats.Goals(s, records, now),
		Sessions:     records,
		Groups:       groups,
	}
}

// Filename is the default file name for an export in format.
func Filename(e *Export, format string) string {
	ext := "md"
	if format == "json" {
		ext = "json"
	}
	return "studious-" + e.GeneratedAt.Format("20060102-150405") + "." + ext
}
