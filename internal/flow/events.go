package flow

import "time"

// Event is anything that can drive a transition: a user intent, a timer tick
// or a result reported back by a collaborator.
type Event interface{ isEvent() }

// ── User intents ──────────────────────────────────────────────────────────────

// Start opens recording-mode selection and creates the draft.
type Start struct{ DraftID string }

// Back leaves recording-mode selection without starting.
type Back struct{}

// SelectMode picks the recording mode and starts timing.
type SelectMode struct{ Mode RecordingMode }

// TogglePause flips between counting and not counting ticks.
type TogglePause struct{}

// Stop ends timing and moves towards logging.
type Stop struct{}

// ConfirmLogDiscard answers the short-session prompt. Proceed is "Log Anyway";
// false is "Continue Studying".
type ConfirmLogDiscard struct{ Proceed bool }

// Reset asks to abandon the draft.
type Reset struct{}

// ConfirmReset answers the reset prompt.
type ConfirmReset struct{ Confirmed bool }

// ExitFocus asks to leave the full-screen focus view.
type ExitFocus struct{}

// ConfirmExitFocus answers the exit-focus prompt.
type ConfirmExitFocus struct{ Choice ExitChoice }

// Fields are the user-editable parts of a draft.
type Fields struct {
	Subject   string
	Technique string
	Mood      string
	Notes     string
	// Share marks the logged session for the feed ("Share to Feed").
	Share bool
}

// UpdateDraft merges the non-empty fields into the draft without validating.
type UpdateDraft struct{ Fields Fields }

// SaveDraft validates and logs the draft. At is the log timestamp.
type SaveDraft struct {
	Fields Fields
	At     time.Time
}

// DiscardDraft drops the draft from the logging form.
type DiscardDraft struct{}

// ── Scheduler and collaborator results ────────────────────────────────────────

// Tick is one second of the timer, scheduled under generation Gen.
type Tick struct{ Gen int }

// CaptureAcquired reports that authorization was granted and recording began.
type CaptureAcquired struct {
	DraftID string
	Handle  CaptureHandle
}

// CaptureDenied reports that authorization was refused or recording could
// not begin.
type CaptureDenied struct {
	DraftID string
	Err     error
}

// CaptureFinalized carries the finished recording.
type CaptureFinalized struct {
	DraftID string
	Media   MediaRef
}

// CaptureFinalizeFailed reports that the recording could not be finalized.
type CaptureFinalizeFailed struct {
	DraftID string
	Err     error
}

// SessionSaveFailed reports a persistence failure after the flow moved on.
type SessionSaveFailed struct {
	SessionID string
	Err       error
}

func (Start) isEvent()                 {}
func (Back) isEvent()                  {}
func (SelectMode) isEvent()            {}
func (TogglePause) isEvent()           {}
func (Stop) isEvent()                  {}
func (ConfirmLogDiscard) isEvent()     {}
func (Reset) isEvent()                 {}
func (ConfirmReset) isEvent()          {}
func (ExitFocus) isEvent()             {}
func (ConfirmExitFocus) isEvent()      {}
func (UpdateDraft) isEvent()           {}
func (SaveDraft) isEvent()             {}
func (DiscardDraft) isEvent()          {}
func (Tick) isEvent()                  {}
func (CaptureAcquired) isEvent()       {}
func (CaptureDenied) isEvent()         {}
func (CaptureFinalized) isEvent()      {}
func (CaptureFinalizeFailed) isEvent() {}
func (SessionSaveFailed) isEvent()     {}
