package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Load when no checkpoint file exists on disk.
var ErrNoSession = errors.New("no active session")

// CheckpointStore persists the Checkpoint of a live flow to disk.
type CheckpointStore interface {
	Save(c *Checkpoint) error
	Load() (*Checkpoint, error) // returns ErrNoSession if none exists
	Delete() error
}

// diskStore is the concrete CheckpointStore that writes to the XDG data directory.
type diskStore struct {
	path string // full path to checkpoint.json
}

// NewCheckpointStore returns a CheckpointStore backed by the XDG data directory.
// Path: $XDG_DATA_HOME/studious/checkpoint.json or ~/.local/share/studious/checkpoint.json
func NewCheckpointStore() (CheckpointStore, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "checkpoint.json")}, nil
}

// DataDir returns the studious-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "studious"), nil
}

// Save marshals c to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(c *Checkpoint) (err error) {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "checkpoint-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	return nil
}

// Load reads and unmarshals the checkpoint file.
// Returns ErrNoSession if the file does not exist.
func (d *diskStore) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	return &c, nil
}

// Delete removes the checkpoint file from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}
