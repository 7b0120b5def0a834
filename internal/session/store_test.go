package session_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/studious/internal/session"
)

// generateTime produces an arbitrary time.Time value truncated to second
// precision so it survives the JSON round-trip.
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, label)
	return time.Unix(sec, 0).UTC()
}

// generateCheckpoint produces an arbitrary Checkpoint value.
func generateCheckpoint(t *rapid.T) *session.Checkpoint {
	return &session.Checkpoint{
		DraftID:        rapid.StringN(1, 36, -1).Draw(t, "draft_id"),
		PID:            rapid.IntRange(1, 1<<20).Draw(t, "pid"),
		Phase:          rapid.SampledFrom([]string{"choosing", "active", "awaiting-capture", "logging"}).Draw(t, "phase"),
		DisplayTime:    rapid.StringMatching(`[0-9]{1,2}:[0-5][0-9]`).Draw(t, "display_time"),
		ElapsedSeconds: rapid.IntRange(0, 100_000).Draw(t, "elapsed"),
		Paused:         rapid.Bool().Draw(t, "paused"),
		Subject:        rapid.StringN(0, 40, -1).Draw(t, "subject"),
		RecordingMode:  rapid.SampledFrom([]string{"none", "timelapse", "ai-evaluation"}).Draw(t, "mode"),
		StartedAt:      generateTime(t, "started_at"),
		UpdatedAt:      generateTime(t, "updated_at"),
	}
}

// Feature: studious, Property 8: Checkpoint persistence round-trip
func TestCheckpointPersistenceRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewCheckpointStore()
	if err != nil {
		t.Fatalf("NewCheckpointStore: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		original := generateCheckpoint(t)

		if err := store.Save(original); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if loaded.DraftID != original.DraftID {
			t.Errorf("DraftID mismatch: got %q, want %q", loaded.DraftID, original.DraftID)
		}
		if loaded.PID != original.PID {
			t.Errorf("PID mismatch: got %d, want %d", loaded.PID, original.PID)
		}
		if loaded.Phase != original.Phase {
			t.Errorf("Phase mismatch: got %q, want %q", loaded.Phase, original.Phase)
		}
		if loaded.ElapsedSeconds != original.ElapsedSeconds {
			t.Errorf("ElapsedSeconds mismatch: got %d, want %d", loaded.ElapsedSeconds, original.ElapsedSeconds)
		}
		if loaded.Paused != original.Paused {
			t.Errorf("Paused mismatch: got %v, want %v", loaded.Paused, original.Paused)
		}
		if loaded.Subject != original.Subject {
			t.Errorf("Subject mismatch: got %q, want %q", loaded.Subject, original.Subject)
		}
		if loaded.RecordingMode != original.RecordingMode {
			t.Errorf("RecordingMode mismatch: got %q, want %q", loaded.RecordingMode, original.RecordingMode)
		}
		if !loaded.StartedAt.Equal(original.StartedAt) {
			t.Errorf("StartedAt mismatch: got %v, want %v", loaded.StartedAt, original.StartedAt)
		}
		if !loaded.UpdatedAt.Equal(original.UpdatedAt) {
			t.Errorf("UpdatedAt mismatch: got %v, want %v", loaded.UpdatedAt, original.UpdatedAt)
		}
	})
}

// TestLoadReturnsErrNoSession verifies that Load returns ErrNoSession when no
// checkpoint file exists on disk.
func TestLoadReturnsErrNoSession(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewCheckpointStore()
	if err != nil {
		t.Fatalf("NewCheckpointStore: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := session.NewCheckpointStore()
	if err != nil {
		t.Fatalf("NewCheckpointStore: %v", err)
	}
	if err := store.Save(&session.Checkpoint{DraftID: "d1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected ErrNoSession after delete, got: %v", err)
	}
}

// TestNewStoreFailsInUnwritableDir verifies that the store cannot be created
// when the data directory is not writable.
func TestNewStoreFailsInUnwritableDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	tmp := t.TempDir()
	if err := os.Chmod(tmp, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmp, 0o755) })

	t.Setenv("XDG_DATA_HOME", tmp)

	if _, err := session.NewCheckpointStore(); err == nil {
		t.Fatal("expected error creating store in unwritable directory, got nil")
	}
}
