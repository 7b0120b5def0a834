package flow

import "github.com/fakeyudi/studious/internal/session"

// Effect is work the driver must perform after a transition. Effects are
// returned in the order they should run.
type Effect interface{ isEffect() }

// StartTicker schedules one Tick{Gen} per second until the generation changes.
type StartTicker struct{ Gen int }

// StopTicker cancels the ticker running under Gen.
type StopTicker struct{ Gen int }

// AcquireCapture requests authorization and, when granted, begins a
// recording. The driver answers with CaptureAcquired or CaptureDenied.
type AcquireCapture struct {
	DraftID string
	Mode    RecordingMode
}

// FinalizeCapture asks the device to finish and release the recording. The
// driver answers with CaptureFinalized or CaptureFinalizeFailed.
type FinalizeCapture struct {
	DraftID string
	Handle  CaptureHandle
}

// AbortCapture discards a recording without producing media.
type AbortCapture struct{ Handle CaptureHandle }

// SaveSession hands the finished record to the persistence collaborator.
type SaveSession struct{ Record session.Record }

// Notify shows a user-facing message.
type Notify struct {
	Title   string
	Message string
}

// LogWarning records a recovered failure.
type LogWarning struct {
	Msg     string
	DraftID string
	Err     error
}

func (StartTicker) isEffect()     {}
func (StopTicker) isEffect()      {}
func (AcquireCapture) isEffect()  {}
func (FinalizeCapture) isEffect() {}
func (AbortCapture) isEffect()    {}
func (SaveSession) isEffect()     {}
func (Notify) isEffect()          {}
func (LogWarning) isEffect()      {}
