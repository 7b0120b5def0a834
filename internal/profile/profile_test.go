package profile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/studious/internal/profile"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if profile.Exists() {
		t.Fatal("Exists reported true before Save")
	}
	in := &profile.Profile{Name: "Sarah Chen", University: "MIT", DefaultMode: "timelapse", DefaultFormat: "json", OutputDir: "out"}
	if err := profile.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !profile.Exists() {
		t.Fatal("Exists reported false after Save")
	}
	got, err := profile.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *in {
		t.Errorf("got %+v, want %+v", got, in)
	}
}

func TestLoadMalformed(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "studious")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := profile.Load(); err == nil || !strings.Contains(err.Error(), "malformed profile") {
		t.Errorf("err = %v", err)
	}
}

func TestRunSetup(t *testing.T) {
	in := strings.NewReader("Ada Lovelace\nCambridge\nai-evaluation\njson\n\ny\n")
	var out bytes.Buffer
	prof, err := profile.RunSetup(in, &out, nil)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	want := profile.Profile{Name: "Ada Lovelace", University: "Cambridge", DefaultMode: "ai-evaluation",
		DefaultFormat: "json", OutputDir: ".", ShareByDefault: true}
	if *prof != want {
		t.Errorf("got %+v, want %+v", *prof, want)
	}
	if prof.Initials() != "AL" {
		t.Errorf("Initials = %q", prof.Initials())
	}
	if !strings.Contains(out.String(), "first-time setup") {
		t.Errorf("banner missing from output: %q", out.String())
	}
}

func TestRunSetupKeepsExistingOnBlankAnswers(t *testing.T) {
	existing := &profile.Profile{Name: "Maya", DefaultMode: "timelapse", DefaultFormat: "json", OutputDir: "exports"}
	in := strings.NewReader("\n\nhologram\n\n\n\n")
	prof, err := profile.RunSetup(in, &bytes.Buffer{}, existing)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if prof.Name != "Maya" || prof.DefaultMode != "timelapse" || prof.DefaultFormat != "json" || prof.OutputDir != "exports" {
		t.Errorf("got %+v", prof)
	}
}
