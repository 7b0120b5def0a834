package flow

import (
	"errors"
	"strings"
)

var (
	// ErrAuthorizationDenied is reported when the capture device refuses
	// access. The user may pick a mode again.
	ErrAuthorizationDenied = errors.New("capture authorization denied")

	// ErrCaptureFailure is reported when a recording cannot be started or
	// finalized.
	ErrCaptureFailure = errors.New("capture failed")
)

// ValidationError lists the required draft fields that are missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in all required fields: " + strings.Join(e.Missing, ", ")
}

// Validate checks that subject, technique and mood are present.
func (f Fields) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(f.Technique) == "" {
		missing = append(missing, "technique")
	}
	if strings.TrimSpace(f.Mood) == "" {
		missing = append(missing, "mood")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
