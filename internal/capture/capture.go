// Package capture provides the recording devices behind the timelapse and
// AI evaluation modes.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakeyudi/studious/internal/flow"
)

var (
	// ErrNoMedia is returned by FinalizeCapture when nothing was recorded.
	ErrNoMedia = fmt.Errorf("%w: no recording was written", flow.ErrCaptureFailure)

	// ErrUnknownHandle is returned for a handle the device did not issue or
	// has already released.
	ErrUnknownHandle = errors.New("unknown capture handle")
)

// Device is a camera or screen recorder.
type Device interface {
	// RequestAuthorization asks for permission to record. A false result
	// with a nil error is a user refusal.
	RequestAuthorization(ctx context.Context) (bool, error)

	// BeginCapture starts recording for mode and returns a handle to it.
	BeginCapture(ctx context.Context, mode flow.RecordingMode) (flow.CaptureHandle, error)

	// FinalizeCapture stops the recording and returns the finished media.
	FinalizeCapture(ctx context.Context, h flow.CaptureHandle) (flow.MediaRef, error)

	// Abort stops the recording and discards it.
	Abort(ctx context.Context, h flow.CaptureHandle) error
}

// Deny is a Device that never grants authorization.
type Deny struct{}

func (Deny) RequestAuthorization(context.Context) (bool, error) { return false, nil }

func (Deny) BeginCapture(context.Context, flow.RecordingMode) (flow.CaptureHandle, error) {
	return "", flow.ErrAuthorizationDenied
}

func (Deny) FinalizeCapture(context.Context, flow.CaptureHandle) (flow.MediaRef, error) {
	return flow.MediaRef{}, ErrUnknownHandle
}

func (Deny) Abort(context.Context, flow.CaptureHandle) error { return ErrUnknownHandle }

// Acquire runs the authorization and begin steps for mode and translates the
// outcome into the flow result event for draftID.
func Acquire(ctx context.Context, d Device, draftID string, mode flow.RecordingMode) flow.Event {
	ok, err := d.RequestAuthorization(ctx)
	if err != nil {
		return flow.CaptureDenied{DraftID: draftID, Err: fmt.Errorf("%w: %v", flow.ErrCaptureFailure, err)}
	}
	if !ok {
		return flow.CaptureDenied{DraftID: draftID, Err: flow.ErrAuthorizationDenied}
	}
	h, err := d.BeginCapture(ctx, mode)
	if err != nil {
		if !errors.Is(err, flow.ErrAuthorizationDenied) && !errors.Is(err, flow.ErrCaptureFailure) {
			err = fmt.Errorf("%w: %v", flow.ErrCaptureFailure, err)
		}
		return flow.CaptureDenied{DraftID: draftID, Err: err}
	}
	return flow.CaptureAcquired{DraftID: draftID, Handle: h}
}

// Finalize stops the recording behind h and translates the outcome into the
// flow result event for draftID.
func Finalize(ctx context.Context, d Device, draftID string, h flow.CaptureHandle) flow.Event {
	media, err := d.FinalizeCapture(ctx, h)
	if err != nil {
		return flow.CaptureFinalizeFailed{DraftID: draftID, Err: err}
	}
	return flow.CaptureFinalized{DraftID: draftID, Media: media}
}
