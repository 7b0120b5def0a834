// Package store persists logged study sessions and study groups.
package store

import (
	"context"
	"errors"

	"github.com/fakeyudi/studious/internal/session"
)

// ErrNotFound is returned when the requested session or group does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the persistence operations used by the CLI, the timer
// driver and the MCP server.
type Repository interface {
	// SaveSession inserts rec, or replaces the stored row with the same ID.
	SaveSession(ctx context.Context, rec *session.Record) error

	// ListSessions returns up to limit sessions, newest first. A limit of
	// zero or less returns every session.
	ListSessions(ctx context.Context, limit int) ([]session.Record, error)

	// ListShared is ListSessions restricted to sessions shared to the feed.
	ListShared(ctx context.Context, limit int) ([]session.Record, error)

	// AllSessions returns every session, newest first.
	AllSessions(ctx context.Context) ([]session.Record, error)

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id string) (*session.Record, error)

	// ToggleLike flips the liked flag on a session and adjusts its like count.
	ToggleLike(ctx context.Context, id string) (*session.Record, error)

	// CreateGroup stores g. The creator is recorded as its owner and first member.
	CreateGroup(ctx context.Context, g *session.Group) error

	// JoinGroup adds the local user to a group. Joining twice is a no-op.
	JoinGroup(ctx context.Context, id string) error

	// LeaveGroup removes the local user from a group. Leaving twice is a no-op.
	LeaveGroup(ctx context.Context, id string) error

	// ListGroups returns every known group ordered by name.
	ListGroups(ctx context.Context) ([]session.Group, error)

	// WriteConnectionTest writes a probe row, reads it back and returns its ID.
	WriteConnectionTest(ctx context.Context) (string, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
