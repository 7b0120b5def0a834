// Package flow implements the study-session timer as a pure state machine.
//
// All behaviour is expressed by Transition, which takes the current State and
// an Event and returns the next State plus the Effects a driver must execute
// (schedule ticks, talk to the capture device, persist the session). Nothing
// in this package sleeps, reads the clock or performs I/O.
package flow

import "fmt"

// Phase is the coarse state of the flow.
type Phase int

const (
	Idle Phase = iota
	ChoosingRecordingMode
	Active
	AwaitingCapture
	LoggingDraft
)

var phaseNames = [...]string{"idle", "choosing", "active", "awaiting-capture", "logging"}

func (p Phase) String() string {
	if int(p) < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// RecordingMode is chosen once per draft.
type RecordingMode string

const (
	ModeNone         RecordingMode = "none"
	ModeTimelapse    RecordingMode = "timelapse"
	ModeAIEvaluation RecordingMode = "ai-evaluation"
)

// Modes lists the selectable recording modes in display order.
var Modes = []RecordingMode{ModeNone, ModeTimelapse, ModeAIEvaluation}

// ParseRecordingMode converts user input into a RecordingMode.
func ParseRecordingMode(s string) (RecordingMode, error) {
	switch RecordingMode(s) {
	case ModeNone, ModeTimelapse, ModeAIEvaluation:
		return RecordingMode(s), nil
	case "":
		return ModeNone, nil
	}
	return "", fmt.Errorf("unknown recording mode %q (want none, timelapse or ai-evaluation)", s)
}

// Records reports whether the mode needs the capture device.
func (m RecordingMode) Records() bool {
	return m == ModeTimelapse || m == ModeAIEvaluation
}

// Label is the title shown on the mode's selection card.
func (m RecordingMode) Label() string {
	switch m {
	case ModeNone:
		return "Full-Screen Focus"
	case ModeTimelapse:
		return "Time-lapse Recording"
	case ModeAIEvaluation:
		return "AI Study Assistant"
	}
	return ""
}

// Description is the blurb shown under the mode's label.
func (m RecordingMode) Description() string {
	switch m {
	case ModeNone:
		return "Immersive full-screen timer for maximum concentration"
	case ModeTimelapse:
		return "Create a time-lapse video of your study session to review later"
	case ModeAIEvaluation:
		return "Record yourself explaining concepts for AI analysis and feedback"
	}
	return ""
}

// Prompt is a pending confirmation. While one is open only its answer is
// accepted from the user.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptShortSession
	PromptReset
	PromptExitFocus
)

// ExitChoice answers PromptExitFocus.
type ExitChoice int

const (
	ExitCancel ExitChoice = iota
	ExitKeepRunning
	ExitStopTimer
)

// CaptureHandle identifies an in-progress recording on the capture device.
type CaptureHandle string

// MediaRef points at a finished recording.
type MediaRef struct {
	Path  string
	Bytes int64
}

// Draft is the in-progress, unsaved study session.
type Draft struct {
	ID        string
	Subject   string
	Technique string
	Mood      string
	Notes     string

	ElapsedSeconds int
	RecordingMode  RecordingMode
	Media          *MediaRef
}

// State is the complete state of the flow. The zero value is Idle.
type State struct {
	Phase Phase
	Draft Draft

	Paused bool
	// FullScreen is the immersive view used by ModeNone; leaving it with
	// "keep timer running" does not affect timing.
	FullScreen bool
	Prompt     Prompt

	// Pending is the recording mode waiting on capture authorization.
	Pending RecordingMode
	// Capture is the in-flight recording, empty when none.
	Capture CaptureHandle
	// Gen is bumped on every exit from Active; ticks from an older
	// generation are stale.
	Gen int

	// Err is the last user-facing error. It is cleared by the next intent.
	Err error
}

// Mode returns the draft's recording mode, ModeNone before one is chosen.
func (d Draft) Mode() RecordingMode {
	if d.RecordingMode == "" {
		return ModeNone
	}
	return d.RecordingMode
}
