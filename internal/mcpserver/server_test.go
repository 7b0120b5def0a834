package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/logging"
	"github.com/fakeyudi/studious/internal/session"
	"github.com/fakeyudi/studious/internal/store"
)

var now = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func newHandlers(t *testing.T) *Handlers {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "studious.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	for i, subject := range []string{"Physics", "Chemistry", "Calculus"} {
		rec := &session.Record{
			ID:              subject,
			Subject:         subject,
			Technique:       "Active Recall",
			Mood:            "Focused",
			DurationMinutes: 30 * (i + 1),
			Shared:          subject == "Physics",
			LoggedAt:        now.Add(time.Duration(i-3) * time.Hour),
		}
		if err := repo.SaveSession(ctx, rec); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}
	if err := repo.CreateGroup(ctx, &session.Group{Name: "Calc Crew"}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	return &Handlers{
		Repo: repo,
		Now:  func() time.Time { return now },
		Log:  logging.New(io.Discard, slog.LevelDebug),
	}
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v", res.Content)
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is %T, want text", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestListSessionsRespectsLimit(t *testing.T) {
	h := newHandlers(t)
	out, isErr := call(t, h.ListSessions, map[string]any{"limit": 2})
	if isErr {
		t.Fatalf("error result: %s", out)
	}
	var items []feed.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(items) != 2 || items[0].Subject != "Calculus" || items[1].Subject != "Chemistry" {
		t.Errorf("items = %+v", items)
	}
	if items[0].Ago != "1h ago" || items[0].Duration != "1h 30m" || items[0].Author != "You" {
		t.Errorf("first item = %+v", items[0])
	}
}

func TestListSessionsDefaultLimit(t *testing.T) {
	h := newHandlers(t)
	out, _ := call(t, h.ListSessions, nil)
	var items []feed.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
}

func TestListSessionsSharedOnly(t *testing.T) {
	h := newHandlers(t)
	out, _ := call(t, h.ListSessions, map[string]any{"shared_only": true})
	var items []feed.Item
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Subject != "Physics" {
		t.Errorf("items = %+v", items)
	}
}

func TestGetSession(t *testing.T) {
	h := newHandlers(t)
	out, isErr := call(t, h.GetSession, map[string]any{"id": "Physics"})
	if isErr || !strings.Contains(out, `"subject": "Physics"`) {
		t.Errorf("GetSession = %s (error=%v)", out, isErr)
	}

	out, isErr = call(t, h.GetSession, map[string]any{"id": "nope"})
	if !isErr || !strings.Contains(out, "not found") {
		t.Errorf("missing session = %s (error=%v)", out, isErr)
	}

	if _, isErr = call(t, h.GetSession, nil); !isErr {
		t.Error("missing id accepted")
	}
}

func TestGetStats(t *testing.T) {
	h := newHandlers(t)
	out, isErr := call(t, h.GetStats, nil)
	if isErr {
		t.Fatalf("error result: %s", out)
	}
	var got struct {
		Stats struct {
			TotalSessions int `json:"total_sessions"`
			TotalMinutes  int `json:"total_minutes"`
		} `json:"stats"`
		Achievements []map[string]any `json:"achievements"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Stats.TotalSessions != 3 || got.Stats.TotalMinutes != 180 {
		t.Errorf("stats = %+v", got.Stats)
	}
	if len(got.Achievements) != 6 {
		t.Errorf("achievements = %d, want 6", len(got.Achievements))
	}
}

func TestListGroups(t *testing.T) {
	h := newHandlers(t)
	out, _ := call(t, h.ListGroups, nil)
	if !strings.Contains(out, "Calc Crew") {
		t.Errorf("ListGroups = %s", out)
	}
}

func TestNewRegistersTools(t *testing.T) {
	if New(newHandlers(t), "test") == nil {
		t.Fatal("New returned nil")
	}
}
