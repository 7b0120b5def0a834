package export_test

import (
	"encoding/base64"
	"reflect"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/studious/internal/export"
	"github.com/fakeyudi/studious/internal/profile"
	"github.com/fakeyudi/studious/internal/session"
)

// generateTime produces a UTC time truncated to second precision.
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(1_600_000_000, 1_800_000_000).Draw(t, label+"_unix_sec")
	return time.Unix(sec, 0).UTC()
}

// generateExport builds an Export from arbitrary sessions and groups.
func generateExport(t *rapid.T) *export.Export {
	prof := profile.Profile{
		Name:          rapid.StringN(0, 30, -1).Draw(t, "name"),
		University:    rapid.StringN(0, 30, -1).Draw(t, "university"),
		DefaultMode:   rapid.SampledFrom([]string{"none", "timelapse", "ai-evaluation"}).Draw(t, "mode"),
		DefaultFormat: rapid.SampledFrom([]string{"markdown", "json"}).Draw(t, "format"),
		OutputDir:     ".",
	}

	n := rapid.IntRange(0, 8).Draw(t, "num_sessions")
	records := make([]session.Record, n)
	for i := range records {
		records[i] = session.Record{
			ID:              rapid.StringN(1, 36, -1).Draw(t, "id"),
			Subject:         rapid.StringN(1, 40, -1).Draw(t, "subject"),
			Technique:       rapid.StringN(1, 20, -1).Draw(t, "technique"),
			Mood:            rapid.StringN(1, 10, -1).Draw(t, "mood"),
			Notes:           rapid.StringN(0, 60, -1).Draw(t, "notes"),
			DurationMinutes: rapid.IntRange(0, 400).Draw(t, "minutes"),
			RecordingMode:   rapid.SampledFrom([]string{"none", "timelapse", "ai-evaluation"}).Draw(t, "rec_mode"),
			Likes:           rapid.IntRange(0, 50).Draw(t, "likes"),
			Shared:          rapid.Bool().Draw(t, "shared"),
			LoggedAt:        generateTime(t, "logged"),
		}
		records[i].ElapsedSeconds = records[i].DurationMinutes * 60
	}

	g := rapid.IntRange(0, 4).Draw(t, "num_groups")
	groups := make([]session.Group, g)
	for i := range groups {
		groups[i] = session.Group{
			ID:        rapid.StringN(1, 36, -1).Draw(t, "group_id"),
			Name:      rapid.StringN(1, 30, -1).Draw(t, "group_name"),
			Members:   rapid.IntRange(0, 40).Draw(t, "members"),
			Joined:    rapid.Bool().Draw(t, "joined"),
			Owner:     rapid.Bool().Draw(t, "owner"),
			CreatedAt: generateTime(t, "group_created"),
		}
	}

	return export.Build(prof, records, groups, generateTime(t, "now"))
}

// Feature: studious, Property 13: Export completeness
func TestExportCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := generateExport(t)

		md, err := (&export.MarkdownRenderer{}).Render(e)
		if err != nil {
			t.Fatalf("MarkdownRenderer.Render: %v", err)
		}
		for _, section := range []string{"## Summary", "## Today", "## Achievements", "## Goals", "## Sessions", "## Groups"} {
			if !strings.Contains(string(md), section) {
				t.Errorf("Markdown output missing section %q", section)
			}
		}

		js, err := (&export.JSONRenderer{}).Render(e)
		if err != nil {
			t.Fatalf("JSONRenderer.Render: %v", err)
		}
		for _, key := range []string{`"profile"`, `"generated_at"`, `"stats"`, `"today"`, `"achievements"`, `"goals"`, `"sessions"`, `"groups"`} {
			if !strings.Contains(string(js), key) {
				t.Errorf("JSON output missing key %q", key)
			}
		}
	})
}

// Feature: studious, Property 14: Export round-trip in both formats
func TestExportRoundTrip(t *testing.T) {
	formats := map[string]export.Parser{
		"json":     &export.JSONParser{},
		"markdown": &export.MarkdownParser{},
	}
	rapid.Check(t, func(t *rapid.T) {
		original := generateExport(t)
		for format, parser := range formats {
			data, err := export.RendererFor(format).Render(original)
			if err != nil {
				t.Fatalf("%s Render: %v", format, err)
			}
			got, err := parser.Parse(data)
			if err != nil {
				t.Fatalf("%s Parse: %v", format, err)
			}
			if !reflect.DeepEqual(got, original) {
				t.Fatalf("%s round trip mismatch:\n got %+v\nwant %+v", format, got, original)
			}
		}
	})
}

func TestBuildComputesStats(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	records := []session.Record{
		{ID: "a", Subject: "Calculus", DurationMinutes: 90, LoggedAt: now.Add(-time.Hour)},
		{ID: "b", Subject: "Physics", DurationMinutes: 30, LoggedAt: now.Add(-25 * time.Hour)},
	}
	e := export.Build(profile.Profile{Name: "Sarah Chen"}, records, nil, now)
	if e.Stats.TotalSessions != 2 || e.Stats.TotalMinutes != 120 || e.Stats.CurrentStreak != 2 {
		t.Errorf("stats = %+v", e.Stats)
	}
	if len(e.Achievements) != 6 || !e.Achievements[0].Unlocked {
		t.Errorf("achievements = %+v", e.Achievements)
	}
	if e.Groups == nil {
		t.Error("Groups should be an empty slice, not nil")
	}
	if got := export.Filename(e, "json"); got != "studious-20260510-120000.json" {
		t.Errorf("Filename = %q", got)
	}
	if got := export.Filename(e, "markdown"); !strings.HasSuffix(got, ".md") {
		t.Errorf("Filename = %q", got)
	}

	md, err := (&export.MarkdownRenderer{}).Render(e)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Studious: Sarah Chen", "- Total time: 2h 0m", "| Calculus |", "[x] **First Steps**"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestMarkdownParserErrors(t *testing.T) {
	badJSON := base64.StdEncoding.EncodeToString([]byte("this is not json {{{"))
	cases := map[string]string{
		"plain markdown":   "# Notes\n\n- item\n",
		"missing payload":  "<!-- studious-export-version: 1 -->\n\n# Studious\n",
		"unterminated":     "<!-- studious-export-version: 1 -->\n<!-- studious-data: abc",
		"corrupted base64": "<!-- studious-export-version: 1 -->\n<!-- studious-data: !!!not-base64!!! -->\n",
		"invalid embedded": "<!-- studious-export-version: 1 -->\n<!-- studious-data: " + badJSON + " -->\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := (&export.MarkdownParser{}).Parse([]byte(input))
			if err == nil || !strings.Contains(err.Error(), "not a valid studious export") {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestJSONParserMalformed(t *testing.T) {
	for _, input := range []string{"", `{"profile": {`, "not json", `[1, 2]`} {
		_, err := (&export.JSONParser{}).Parse([]byte(input))
		if err == nil || !strings.Contains(err.Error(), "failed to parse JSON export") {
			t.Errorf("Parse(%q) err = %v", input, err)
		}
	}
}

func TestParserFor(t *testing.T) {
	if _, ok := export.ParserFor(".JSON", nil).(*export.JSONParser); !ok {
		t.Error(".JSON should select the JSON parser")
	}
	if _, ok := export.ParserFor(".md", []byte("{")).(*export.MarkdownParser); !ok {
		t.Error(".md should select the Markdown parser")
	}
	if _, ok := export.ParserFor(".txt", []byte("  {\"x\":1}")).(*export.JSONParser); !ok {
		t.Error("JSON content should be sniffed")
	}
	if _, ok := export.ParserFor("", []byte("<!-- studious")).(*export.MarkdownParser); !ok {
		t.Error("Markdown content should be sniffed")
	}
}
