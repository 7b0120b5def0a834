// Package mcpserver exposes logged study data to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/stats"
	"github.com/fakeyudi/studious/internal/store"
)

const defaultLimit = 20

// Handlers serves the read-only study tools from a Repository.
type Handlers struct {
	Repo store.Repository
	Now  func() time.Time
	Log  *slog.Logger
}

// New builds an MCP server with the study tools registered.
func New(h *Handlers, version string) *server.MCPServer {
	if h.Now == nil {
		h.Now = time.Now
	}
	if h.Log == nil {
		h.Log = slog.Default()
	}

	s := server.NewMCPServer("studious", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List logged study sessions, newest first"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return (default 20)")),
		mcp.WithBoolean("shared_only", mcp.Description("Only sessions shared to the feed")),
	), h.ListSessions)

	s.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get a single study session by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
	), h.GetSession)

	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Study statistics, today's progress, achievements and goals"),
	), h.GetStats)

	s.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List study groups and the local user's membership"),
	), h.ListGroups)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(h *Handlers, version string) error {
	return server.ServeStdio(New(h, version))
}

// ListSessions returns feed rows for the most recent sessions.
func (h *Handlers) ListSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	list := h.Repo.ListSessions
	if req.GetBool("shared_only", false) {
		list = h.Repo.ListShared
	}
	records, err := list(ctx, limit)
	if err != nil {
		return h.fail("list_sessions", err), nil
	}
	return jsonResult(feed.Items(records, h.Now()))
}

// GetSession returns one stored session.
func (h *Handlers) GetSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := h.Repo.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("session %q not found", id)), nil
	}
	if err != nil {
		return h.fail("get_session", err), nil
	}
	return jsonResult(rec)
}

// GetStats computes the profile statistics as of now.
func (h *Handlers) GetStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.Repo.AllSessions(ctx)
	if err != nil {
		return h.fail("get_stats", err), nil
	}
	groups, err := h.Repo.ListGroups(ctx)
	if err != nil {
		return h.fail("get_stats", err), nil
	}
	now := h.Now()
	s, today := stats.Compute(records, groups, now)
	return jsonResult(struct {
		Stats        stats.UserStats     `json:"stats"`
		Today        stats.Today         `json:"today"`
		Achievements []stats.Achievement `json:"achievements"`
		Goals        []stats.Goal        `json:"goals"`
	}{s, today, stats.Achievements(s, records), stats.Goals(s, records, now)})
}

// ListGroups returns every study group.
func (h *Handlers) ListGroups(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := h.Repo.ListGroups(ctx)
	if err != nil {
		return h.fail("list_groups", err), nil
	}
	return jsonResult(groups)
}

func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	h.Log.Error("mcp tool failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
