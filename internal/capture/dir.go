package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/fakeyudi/studious/internal/flow"
)

// mtimeSkew widens the recording window when scanning the directory, since
// filesystem timestamps can trail the wall clock.
const mtimeSkew = 2 * time.Second

// DirRecorder is a Device backed by a directory that an external recorder
// writes into. Recordings for a mode land in Root/<mode>/.
type DirRecorder struct {
	Root string

	mu     sync.Mutex
	active map[flow.CaptureHandle]*recording
}

type recording struct {
	dir     string
	started time.Time
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu     sync.Mutex
	latest map[string]time.Time
}

// NewDirRecorder returns a DirRecorder rooted at root.
func NewDirRecorder(root string) *DirRecorder {
	return &DirRecorder{Root: root}
}

// RequestAuthorization grants access when Root exists (or can be created) and
// accepts writes.
func (r *DirRecorder) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	probe, err := os.CreateTemp(r.Root, ".probe-*")
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return true, nil
}

// BeginCapture starts watching Root/<mode>/ for new media.
func (r *DirRecorder) BeginCapture(ctx context.Context, mode flow.RecordingMode) (flow.CaptureHandle, error) {
	if !mode.Records() {
		return "", fmt.Errorf("mode %q does not record", mode)
	}
	dir := filepath.Join(r.Root, string(mode))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", flow.ErrCaptureFailure, dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("%w: %v", flow.ErrCaptureFailure, err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return "", fmt.Errorf("%w: watching %s: %v", flow.ErrCaptureFailure, dir, err)
	}

	rec := &recording{
		dir:     dir,
		started: time.Now(),
		watcher: watcher,
		done:    make(chan struct{}),
		latest:  make(map[string]time.Time),
	}
	go rec.watch()

	h := flow.CaptureHandle(uuid.NewString())
	r.mu.Lock()
	if r.active == nil {
		r.active = make(map[flow.CaptureHandle]*recording)
	}
	r.active[h] = rec
	r.mu.Unlock()
	return h, nil
}

// FinalizeCapture stops the watcher behind h and returns the most recently
// written file, or ErrNoMedia.
func (r *DirRecorder) FinalizeCapture(ctx context.Context, h flow.CaptureHandle) (flow.MediaRef, error) {
	rec, err := r.release(h)
	if err != nil {
		return flow.MediaRef{}, err
	}
	rec.stop()
	if err := ctx.Err(); err != nil {
		return flow.MediaRef{}, err
	}

	path := rec.newest()
	if path == "" {
		return flow.MediaRef{}, ErrNoMedia
	}
	info, err := os.Stat(path)
	if err != nil {
		return flow.MediaRef{}, fmt.Errorf("%w: %v", flow.ErrCaptureFailure, err)
	}
	return flow.MediaRef{Path: path, Bytes: info.Size()}, nil
}

// Abort stops the watcher behind h. Recorded files are left in place.
func (r *DirRecorder) Abort(_ context.Context, h flow.CaptureHandle) error {
	rec, err := r.release(h)
	if err != nil {
		return err
	}
	rec.stop()
	return nil
}

// Active reports how many recordings are in progress.
func (r *DirRecorder) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

func (r *DirRecorder) release(h flow.CaptureHandle) (*recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.active[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	delete(r.active, h)
	return rec, nil
}

func (rec *recording) watch() {
	defer close(rec.done)
	for {
		select {
		case event, ok := <-rec.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if hidden(event.Name) {
				continue
			}
			rec.mu.Lock()
			rec.latest[event.Name] = time.Now()
			rec.mu.Unlock()

		case _, ok := <-rec.watcher.Errors:
			if !ok {
				return
			}
			// Watcher errors are non-fatal; the directory scan in newest
			// still sees the files.
		}
	}
}

func (rec *recording) stop() {
	rec.watcher.Close()
	<-rec.done
}

// newest merges the watcher's events with a scan of the directory for files
// modified since the recording started, and returns the latest one.
func (rec *recording) newest() string {
	rec.mu.Lock()
	seen := make(map[string]time.Time, len(rec.latest))
	for p, t := range rec.latest {
		seen[p] = t
	}
	rec.mu.Unlock()

	entries, _ := os.ReadDir(rec.dir)
	for _, e := range entries {
		if e.IsDir() || hidden(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(rec.started.Add(-mtimeSkew)) {
			continue
		}
		p := filepath.Join(rec.dir, e.Name())
		if t, ok := seen[p]; !ok || info.ModTime().After(t) {
			seen[p] = info.ModTime()
		}
	}

	var best string
	var bestAt time.Time
	for p, t := range seen {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if best == "" || t.After(bestAt) || (t.Equal(bestAt) && p > best) {
			best, bestAt = p, t
		}
	}
	return best
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
