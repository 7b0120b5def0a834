package capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fakeyudi/studious/internal/capture"
	"github.com/fakeyudi/studious/internal/flow"
)

func TestDirRecorderAuthorizes(t *testing.T) {
	r := capture.NewDirRecorder(filepath.Join(t.TempDir(), "media"))
	ok, err := r.RequestAuthorization(context.Background())
	if err != nil || !ok {
		t.Fatalf("RequestAuthorization = %v, %v", ok, err)
	}
	entries, _ := os.ReadDir(r.Root)
	if len(entries) != 0 {
		t.Errorf("authorization probe left %d files behind", len(entries))
	}
}

func TestDirRecorderRefusesReadOnlyRoot(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	if err := os.Chmod(root, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	ok, err := capture.NewDirRecorder(root).RequestAuthorization(context.Background())
	if ok || err != nil {
		t.Errorf("RequestAuthorization = %v, %v; want refusal", ok, err)
	}
}

func TestDirRecorderFinalizeReturnsNewestFile(t *testing.T) {
	ctx := context.Background()
	r := capture.NewDirRecorder(t.TempDir())
	h, err := r.BeginCapture(ctx, flow.ModeTimelapse)
	if err != nil {
		t.Fatalf("BeginCapture: %v", err)
	}

	dir := filepath.Join(r.Root, "timelapse")
	first := filepath.Join(dir, "part1.mp4")
	second := filepath.Join(dir, "final.mp4")
	if err := os.WriteFile(first, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".partial"), []byte("tmp"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("recorded"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(second, later, later); err != nil {
		t.Fatal(err)
	}

	media, err := r.FinalizeCapture(ctx, h)
	if err != nil {
		t.Fatalf("FinalizeCapture: %v", err)
	}
	if media.Path != second || media.Bytes != int64(len("recorded")) {
		t.Errorf("media = %+v, want %s", media, second)
	}
	if r.Active() != 0 {
		t.Errorf("Active = %d after finalize", r.Active())
	}
}

func TestDirRecorderIgnoresOldFiles(t *testing.T) {
	ctx := context.Background()
	r := capture.NewDirRecorder(t.TempDir())
	dir := filepath.Join(r.Root, "ai-evaluation")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	old := filepath.Join(dir, "yesterday.mp4")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	h, err := r.BeginCapture(ctx, flow.ModeAIEvaluation)
	if err != nil {
		t.Fatalf("BeginCapture: %v", err)
	}
	_, err = r.FinalizeCapture(ctx, h)
	if !errors.Is(err, capture.ErrNoMedia) {
		t.Fatalf("err = %v, want ErrNoMedia", err)
	}
	if !errors.Is(err, flow.ErrCaptureFailure) {
		t.Error("ErrNoMedia should be a capture failure")
	}
}

func TestDirRecorderAbortReleasesHandle(t *testing.T) {
	ctx := context.Background()
	r := capture.NewDirRecorder(t.TempDir())
	h, err := r.BeginCapture(ctx, flow.ModeTimelapse)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Abort(ctx, h); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if err := r.Abort(ctx, h); !errors.Is(err, capture.ErrUnknownHandle) {
		t.Errorf("second Abort = %v, want ErrUnknownHandle", err)
	}
	if _, err := r.FinalizeCapture(ctx, h); !errors.Is(err, capture.ErrUnknownHandle) {
		t.Errorf("FinalizeCapture after abort = %v, want ErrUnknownHandle", err)
	}
}

func TestDirRecorderRejectsNoneMode(t *testing.T) {
	if _, err := capture.NewDirRecorder(t.TempDir()).BeginCapture(context.Background(), flow.ModeNone); err == nil {
		t.Error("expected error for mode none")
	}
}

func TestAcquireTranslatesOutcomes(t *testing.T) {
	ctx := context.Background()

	ev := capture.Acquire(ctx, capture.Deny{}, "d1", flow.ModeTimelapse)
	denied, ok := ev.(flow.CaptureDenied)
	if !ok || denied.DraftID != "d1" || !errors.Is(denied.Err, flow.ErrAuthorizationDenied) {
		t.Errorf("Deny: %#v", ev)
	}

	r := capture.NewDirRecorder(t.TempDir())
	ev = capture.Acquire(ctx, r, "d2", flow.ModeTimelapse)
	acquired, ok := ev.(flow.CaptureAcquired)
	if !ok || acquired.DraftID != "d2" || acquired.Handle == "" {
		t.Fatalf("DirRecorder: %#v", ev)
	}

	ev = capture.Finalize(ctx, r, "d2", acquired.Handle)
	failed, ok := ev.(flow.CaptureFinalizeFailed)
	if !ok || !errors.Is(failed.Err, capture.ErrNoMedia) {
		t.Errorf("Finalize with no media: %#v", ev)
	}
}
