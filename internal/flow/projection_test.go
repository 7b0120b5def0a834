package flow_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/studious/internal/flow"
)

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{
		0:     "0:00",
		5:     "0:05",
		65:    "1:05",
		599:   "9:59",
		3599:  "59:59",
		3600:  "1:00:00",
		3725:  "1:02:05",
		36000: "10:00:00",
		-4:    "0:00",
	}
	for in, want := range cases {
		if got := flow.FormatElapsed(in); got != want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
}

// Feature: studious, Property 5: Seconds field of the display time is always two digits
func TestFormatElapsedSecondsField(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 100*3600).Draw(rt, "seconds")
		got := flow.FormatElapsed(n)
		parts := strings.Split(got, ":")
		if n >= 3600 && len(parts) != 3 {
			rt.Fatalf("FormatElapsed(%d) = %q, want H:MM:SS", n, got)
		}
		if n < 3600 && len(parts) != 2 {
			rt.Fatalf("FormatElapsed(%d) = %q, want M:SS", n, got)
		}
		if len(parts[len(parts)-1]) != 2 {
			rt.Fatalf("FormatElapsed(%d) = %q, seconds not zero-padded", n, got)
		}
	})
}

func TestProjectLabels(t *testing.T) {
	if p := flow.Project(flow.State{}); p.StatusLabel != "Ready to study?" || p.DisplayTime != "0:00" {
		t.Errorf("idle projection = %+v", p)
	}

	choosing, _ := apply(flow.State{}, flow.Start{DraftID: "d1"})
	if p := flow.Project(choosing); p.StatusLabel != "Choose recording mode" || p.RecordingModeLabel != "" {
		t.Errorf("choosing projection = %+v", p)
	}

	pending, _ := flow.Transition(choosing, flow.SelectMode{Mode: flow.ModeTimelapse})
	if p := flow.Project(pending); p.StatusLabel != "Waiting for camera access..." || p.RecordingModeLabel != flow.ModeTimelapse.Label() {
		t.Errorf("pending projection = %+v", p)
	}

	s := tickN(activeNone(t), 75)
	p := flow.Project(s)
	if p.DisplayTime != "1:15" || p.PausedLabel != "Locked In" || !p.FullScreen {
		t.Errorf("active projection = %+v", p)
	}
	s, _ = flow.Transition(s, flow.TogglePause{})
	if p := flow.Project(s); p.PausedLabel != "Locked Out" || p.StatusLabel != "Paused" {
		t.Errorf("paused projection = %+v", p)
	}

	rec := activeRecording(t, flow.ModeAIEvaluation)
	if p := flow.Project(rec); p.StatusLabel != "Recording for AI evaluation..." || p.FullScreen {
		t.Errorf("recording projection = %+v", p)
	}
}

func TestProjectSurfacesError(t *testing.T) {
	s, _ := apply(flow.State{},
		flow.Start{DraftID: "d1"},
		flow.SelectMode{Mode: flow.ModeTimelapse},
		flow.CaptureDenied{DraftID: "d1"},
	)
	if p := flow.Project(s); p.Error != flow.ErrAuthorizationDenied.Error() {
		t.Errorf("error = %q", p.Error)
	}
}

func TestAnswerMatchesDialogChoices(t *testing.T) {
	for _, p := range []flow.Prompt{flow.PromptShortSession, flow.PromptReset, flow.PromptExitFocus} {
		d := flow.PromptDialog(p)
		if d.Title == "" || len(d.Choices) == 0 {
			t.Fatalf("prompt %v has no dialog", p)
		}
		for i := range d.Choices {
			if flow.Answer(p, i) == nil {
				t.Errorf("prompt %v choice %d (%s) has no answer", p, i, d.Choices[i])
			}
		}
		if flow.Answer(p, len(d.Choices)) != nil {
			t.Errorf("prompt %v accepted out-of-range choice", p)
		}
	}
	if flow.Answer(flow.PromptNone, 0) != nil {
		t.Error("PromptNone produced an answer")
	}
}

func TestSafeChoiceLeavesTimerRunning(t *testing.T) {
	s := tickN(activeNone(t), 10)
	for _, open := range []flow.Event{flow.Stop{}, flow.Reset{}, flow.ExitFocus{}} {
		next, _ := flow.Transition(s, open)
		next, _ = flow.Transition(next, flow.Answer(next.Prompt, 0))
		if next.Phase != flow.Active || next.Prompt != flow.PromptNone || next.Draft.ElapsedSeconds != 10 {
			t.Errorf("safe answer after %T: state = %+v", open, next)
		}
	}
}

func TestParseRecordingMode(t *testing.T) {
	for _, m := range flow.Modes {
		got, err := flow.ParseRecordingMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseRecordingMode(%q) = %q, %v", m, got, err)
		}
	}
	if got, err := flow.ParseRecordingMode(""); err != nil || got != flow.ModeNone {
		t.Errorf("ParseRecordingMode(\"\") = %q, %v", got, err)
	}
	if _, err := flow.ParseRecordingMode("hologram"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLookupMood(t *testing.T) {
	m, ok := flow.LookupMood("focused")
	if !ok || m.Emoji != "🎯" {
		t.Errorf("LookupMood(focused) = %+v, %v", m, ok)
	}
	if _, ok := flow.LookupMood("grumpy"); ok {
		t.Error("LookupMood(grumpy) found an entry")
	}
}
