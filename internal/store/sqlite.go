package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fakeyudi/studious/internal/session"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer; the timer driver and CLI never need parallel connections.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL,
		technique TEXT NOT NULL,
		mood TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL,
		elapsed_seconds INTEGER NOT NULL,
		recording_mode TEXT NOT NULL DEFAULT 'none',
		media_path TEXT NOT NULL DEFAULT '',
		shared INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		liked INTEGER NOT NULL DEFAULT 0,
		logged_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_logged_at ON sessions(logged_at);

	CREATE TABLE IF NOT EXISTS study_groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		members INTEGER NOT NULL DEFAULT 0,
		joined INTEGER NOT NULL DEFAULT 0,
		owner INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS connection_test (
		id TEXT PRIMARY KEY,
		message TEXT NOT NULL,
		written_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSession inserts rec or replaces the row with the same ID.
func (s *SQLiteStore) SaveSession(ctx context.Context, rec *session.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordingMode == "" {
		rec.RecordingMode = "none"
	}
	query := `
	INSERT INTO sessions (id, author, subject, technique, mood, notes, duration_minutes,
		elapsed_seconds, recording_mode, media_path, shared, likes, liked, logged_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		author = excluded.author,
		subject = excluded.subject,
		technique = excluded.technique,
		mood = excluded.mood,
		notes = excluded.notes,
		duration_minutes = excluded.duration_minutes,
		elapsed_seconds = excluded.elapsed_seconds,
		recording_mode = excluded.recording_mode,
		media_path = excluded.media_path,
		shared = excluded.shared,
		logged_at = excluded.logged_at`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Author, rec.Subject, rec.Technique, rec.Mood, rec.Notes,
		rec.DurationMinutes, rec.ElapsedSeconds, rec.RecordingMode, rec.MediaPath,
		boolInt(rec.Shared), rec.Likes, boolInt(rec.Liked), rec.LoggedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

const sessionColumns = `id, author, subject, technique, mood, notes, duration_minutes,
	elapsed_seconds, recording_mode, media_path, shared, likes, liked, logged_at`

// ListSessions returns up to limit sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]session.Record, error) {
	return s.listSessions(ctx, limit, false)
}

// ListShared returns up to limit shared sessions, newest first.
func (s *SQLiteStore) ListShared(ctx context.Context, limit int) ([]session.Record, error) {
	return s.listSessions(ctx, limit, true)
}

func (s *SQLiteStore) listSessions(ctx context.Context, limit int, sharedOnly bool) ([]session.Record, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if sharedOnly {
		query += ` WHERE shared = 1`
	}
	query += ` ORDER BY logged_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// AllSessions returns every session, newest first.
func (s *SQLiteStore) AllSessions(ctx context.Context) ([]session.Record, error) {
	return s.ListSessions(ctx, 0)
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*session.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// ToggleLike flips the liked flag on a session and adjusts its like count.
func (s *SQLiteStore) ToggleLike(ctx context.Context, id string) (*session.Record, error) {
	query := `
	UPDATE sessions SET
		likes = CASE WHEN liked = 1 THEN MAX(likes - 1, 0) ELSE likes + 1 END,
		liked = 1 - liked
	WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("toggle like on %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s.GetSession(ctx, id)
}

// CreateGroup stores g with the local user as owner and first member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, g *session.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	g.Owner = true
	g.Joined = true
	if g.Members < 1 {
		g.Members = 1
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO study_groups (id, name, subject, members, joined, owner, created_at)
	VALUES (?, ?, ?, ?, 1, 1, ?)`,
		g.ID, g.Name, g.Subject, g.Members, g.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("create group %q: %w", g.Name, err)
	}
	return nil
}

// JoinGroup adds the local user to a group.
func (s *SQLiteStore) JoinGroup(ctx context.Context, id string) error {
	return s.setMembership(ctx, id, true)
}

// LeaveGroup removes the local user from a group.
func (s *SQLiteStore) LeaveGroup(ctx context.Context, id string) error {
	return s.setMembership(ctx, id, false)
}

func (s *SQLiteStore) setMembership(ctx context.Context, id string, join bool) error {
	query := `
	UPDATE study_groups SET
		members = CASE WHEN joined = ? THEN members
		               WHEN ? = 1 THEN members + 1
		               ELSE MAX(members - 1, 0) END,
		joined = ?
	WHERE id = ?`

	j := boolInt(join)
	res, err := s.db.ExecContext(ctx, query, j, j, j, id)
	if err != nil {
		return fmt.Errorf("update membership of group %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListGroups returns every known group ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]session.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subject, members, joined, owner, created_at
		FROM study_groups ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var out []session.Group
	for rows.Next() {
		var g session.Group
		var joined, owner int
		var createdAt int64
		if err := rows.Scan(&g.ID, &g.Name, &g.Subject, &g.Members, &joined, &owner, &createdAt); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		g.Joined = joined == 1
		g.Owner = owner == 1
		g.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return out, nil
}

// WriteConnectionTest writes a probe row and reads it back.
func (s *SQLiteStore) WriteConnectionTest(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().Unix()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO connection_test (id, message, written_at) VALUES (?, ?, ?)`,
		id, "Hello from studious!", now,
	); err != nil {
		return "", fmt.Errorf("write connection test: %w", err)
	}

	var got string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM connection_test WHERE id = ?`, id).Scan(&got)
	if err != nil {
		return "", fmt.Errorf("read connection test: %w", err)
	}
	return got, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*session.Record, error) {
	var rec session.Record
	var shared, liked int
	var loggedAt int64
	err := row.Scan(
		&rec.ID, &rec.Author, &rec.Subject, &rec.Technique, &rec.Mood, &rec.Notes,
		&rec.DurationMinutes, &rec.ElapsedSeconds, &rec.RecordingMode, &rec.MediaPath,
		&shared, &rec.Likes, &liked, &loggedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	rec.Shared = shared == 1
	rec.Liked = liked == 1
	rec.LoggedAt = time.Unix(loggedAt, 0)
	return &rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
