package flow

import "fmt"

// FormatElapsed renders total seconds as H:MM:SS from one hour up, else M:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Projection is the read-only view of a State handed to the presentation layer.
type Projection struct {
	DisplayTime        string
	Phase              Phase
	PausedLabel        string
	RecordingModeLabel string
	StatusLabel        string
	Subject            string
	FullScreen         bool
	Prompt             Prompt
	Error              string
}

// Project derives the display projection of s.
func Project(s State) Projection {
	p := Projection{
		DisplayTime: FormatElapsed(s.Draft.ElapsedSeconds),
		Phase:       s.Phase,
		Subject:     s.Draft.Subject,
		FullScreen:  s.FullScreen,
		Prompt:      s.Prompt,
	}
	if s.Err != nil {
		p.Error = s.Err.Error()
	}

	switch {
	case s.Pending != "":
		p.RecordingModeLabel = s.Pending.Label()
	case s.Phase != Idle && s.Phase != ChoosingRecordingMode:
		p.RecordingModeLabel = s.Draft.Mode().Label()
	}

	switch s.Phase {
	case Idle:
		p.StatusLabel = "Ready to study?"
	case ChoosingRecordingMode:
		p.StatusLabel = "Choose recording mode"
		if s.Pending != "" {
			p.StatusLabel = "Waiting for camera access..."
		}
	case Active:
		p.PausedLabel = "Locked In"
		if s.Paused {
			p.PausedLabel = "Locked Out"
		}
		switch {
		case s.Paused:
			p.StatusLabel = "Paused"
		case s.Draft.Mode() == ModeTimelapse:
			p.StatusLabel = "Recording time-lapse..."
		case s.Draft.Mode() == ModeAIEvaluation:
			p.StatusLabel = "Recording for AI evaluation..."
		default:
			p.StatusLabel = "Locked In"
		}
	case AwaitingCapture:
		p.StatusLabel = "Finalizing recording..."
	case LoggingDraft:
		p.StatusLabel = "Log Study Session"
	}
	return p
}

// Dialog is the wording of a confirmation prompt. Choices are listed in the
// order the user sees them; the first is always the safe one.
type Dialog struct {
	Title   string
	Message string
	Choices []string
}

// PromptDialog returns the wording for p.
func PromptDialog(p Prompt) Dialog {
	switch p {
	case PromptShortSession:
		return Dialog{
			Title:   "Short Session",
			Message: "This session is quite short. Are you sure you want to log it?",
			Choices: []string{"Continue Studying", "Log Anyway"},
		}
	case PromptReset:
		return Dialog{
			Title:   "Reset Timer",
			Message: "Are you sure you want to reset the timer? Your progress will be lost.",
			Choices: []string{"Cancel", "Reset"},
		}
	case PromptExitFocus:
		return Dialog{
			Title:   "Exit Focus Mode",
			Message: "Do you want to stop the timer or keep it running?",
			Choices: []string{"Cancel", "Keep Timer Running", "Stop Timer"},
		}
	}
	return Dialog{}
}

// Answer maps a choice index on p's dialog to the event that answers it.
// It returns nil for an out-of-range choice.
func Answer(p Prompt, choice int) Event {
	switch p {
	case PromptShortSession:
		switch choice {
		case 0:
			return ConfirmLogDiscard{Proceed: false}
		case 1:
			return ConfirmLogDiscard{Proceed: true}
		}
	case PromptReset:
		switch choice {
		case 0:
			return ConfirmReset{Confirmed: false}
		case 1:
			return ConfirmReset{Confirmed: true}
		}
	case PromptExitFocus:
		switch choice {
		case 0:
			return ConfirmExitFocus{Choice: ExitCancel}
		case 1:
			return ConfirmExitFocus{Choice: ExitKeepRunning}
		case 2:
			return ConfirmExitFocus{Choice: ExitStopTimer}
		}
	}
	return nil
}
