package flow

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/studious/internal/session"
)

// ShortSessionSeconds is the elapsed time under which Stop asks for
// confirmation before logging.
const ShortSessionSeconds = 60

// Transition applies ev to s and returns the next state and the effects the
// driver must run. It never mutates s. A transition either applies fully or
// leaves the state as it was (apart from surfacing an error).
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Tick:
		return onTick(s, ev), nil
	case CaptureAcquired:
		return onCaptureAcquired(s, ev)
	case CaptureDenied:
		return onCaptureDenied(s, ev), nil
	case CaptureFinalized:
		return onCaptureFinalized(s, ev)
	case CaptureFinalizeFailed:
		return onCaptureFinalizeFailed(s, ev)
	case SessionSaveFailed:
		s.Err = fmt.Errorf("saving session: %w", ev.Err)
		return s, []Effect{LogWarning{Msg: "session save failed", DraftID: ev.SessionID, Err: ev.Err}}
	}

	// User intents from here on.
	s.Err = nil

	if s.Prompt != PromptNone {
		return answerPrompt(s, ev)
	}
	if _, ok := ev.(Reset); ok {
		if s.Phase != Idle {
			s.Prompt = PromptReset
		}
		return s, nil
	}

	switch s.Phase {
	case Idle:
		if ev, ok := ev.(Start); ok {
			return State{Phase: ChoosingRecordingMode, Draft: Draft{ID: ev.DraftID}, Gen: s.Gen}, nil
		}
	case ChoosingRecordingMode:
		return choosing(s, ev)
	case Active:
		return active(s, ev)
	case LoggingDraft:
		return logging(s, ev)
	}
	return s, nil
}

func choosing(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Back:
		return toIdle(s)
	case UpdateDraft:
		s.Draft = mergeFields(s.Draft, ev.Fields)
	case SelectMode:
		if s.Pending != "" {
			// One authorization request at a time.
			return s, nil
		}
		if _, err := ParseRecordingMode(string(ev.Mode)); err != nil || ev.Mode == "" {
			s.Err = fmt.Errorf("unknown recording mode %q", ev.Mode)
			return s, nil
		}
		if !ev.Mode.Records() {
			return beginActive(s, ev.Mode, "")
		}
		s.Pending = ev.Mode
		return s, []Effect{AcquireCapture{DraftID: s.Draft.ID, Mode: ev.Mode}}
	}
	return s, nil
}

func active(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case TogglePause:
		s.Paused = !s.Paused
	case UpdateDraft:
		s.Draft = mergeFields(s.Draft, ev.Fields)
	case Stop:
		if s.Draft.ElapsedSeconds < ShortSessionSeconds {
			s.Prompt = PromptShortSession
			return s, nil
		}
		return stopTiming(s)
	case ExitFocus:
		if s.FullScreen {
			s.Prompt = PromptExitFocus
		}
	}
	return s, nil
}

func logging(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case UpdateDraft:
		s.Draft = mergeFields(s.Draft, ev.Fields)
	case DiscardDraft:
		return toIdle(s)
	case SaveDraft:
		d := mergeFields(s.Draft, ev.Fields)
		f := Fields{Subject: d.Subject, Technique: d.Technique, Mood: d.Mood}
		if err := f.Validate(); err != nil {
			s.Err = err
			return s, nil
		}
		rec := session.Record{
			ID:              d.ID,
			Subject:         d.Subject,
			Technique:       d.Technique,
			Mood:            d.Mood,
			Notes:           d.Notes,
			DurationMinutes: d.ElapsedSeconds / 60,
			ElapsedSeconds:  d.ElapsedSeconds,
			RecordingMode:   string(d.RecordingMode),
			Shared:          ev.Fields.Share,
			LoggedAt:        ev.At,
		}
		if d.Media != nil {
			rec.MediaPath = d.Media.Path
		}
		next, effects := toIdle(s)
		effects = append(effects,
			SaveSession{Record: rec},
			Notify{Title: "Session Logged! 🎉", Message: loggedMessage(rec, d.Media != nil)},
		)
		return next, effects
	}
	return s, nil
}

func answerPrompt(s State, ev Event) (State, []Effect) {
	switch s.Prompt {
	case PromptShortSession:
		if ev, ok := ev.(ConfirmLogDiscard); ok {
			s.Prompt = PromptNone
			if ev.Proceed && s.Phase == Active {
				return stopTiming(s)
			}
		}
	case PromptReset:
		if ev, ok := ev.(ConfirmReset); ok {
			s.Prompt = PromptNone
			if ev.Confirmed {
				return toIdle(s)
			}
		}
	case PromptExitFocus:
		if ev, ok := ev.(ConfirmExitFocus); ok {
			s.Prompt = PromptNone
			switch ev.Choice {
			case ExitKeepRunning:
				s.FullScreen = false
			case ExitStopTimer:
				return toIdle(s)
			}
		}
	}
	return s, nil
}

func onTick(s State, ev Tick) State {
	if s.Phase == Active && ev.Gen == s.Gen && !s.Paused {
		s.Draft.ElapsedSeconds++
	}
	return s
}

func onCaptureAcquired(s State, ev CaptureAcquired) (State, []Effect) {
	if s.Phase != ChoosingRecordingMode || s.Pending == "" || ev.DraftID != s.Draft.ID {
		return s, []Effect{
			AbortCapture{Handle: ev.Handle},
			LogWarning{Msg: "discarding capture for abandoned draft", DraftID: ev.DraftID},
		}
	}
	mode := s.Pending
	next, effects := beginActive(s, mode, ev.Handle)
	if title, msg := startedMessage(mode); title != "" {
		effects = append(effects, Notify{Title: title, Message: msg})
	}
	return next, effects
}

func onCaptureDenied(s State, ev CaptureDenied) State {
	if s.Phase != ChoosingRecordingMode || s.Pending == "" || ev.DraftID != s.Draft.ID {
		return s
	}
	s.Pending = ""
	s.Err = ev.Err
	if s.Err == nil {
		s.Err = ErrAuthorizationDenied
	}
	return s
}

func onCaptureFinalized(s State, ev CaptureFinalized) (State, []Effect) {
	if s.Phase != AwaitingCapture || ev.DraftID != s.Draft.ID {
		return s, []Effect{LogWarning{Msg: "ignoring media for abandoned draft", DraftID: ev.DraftID}}
	}
	media := ev.Media
	s.Draft.Media = &media
	s.Capture = ""
	s.Phase = LoggingDraft
	return s, nil
}

func onCaptureFinalizeFailed(s State, ev CaptureFinalizeFailed) (State, []Effect) {
	warn := LogWarning{Msg: "capture finalization failed", DraftID: ev.DraftID, Err: ev.Err}
	if s.Phase != AwaitingCapture || ev.DraftID != s.Draft.ID {
		return s, []Effect{warn}
	}
	// Degrade to an un-recorded log entry.
	s.Draft.Media = nil
	s.Capture = ""
	s.Phase = LoggingDraft
	return s, []Effect{warn}
}

func beginActive(s State, mode RecordingMode, handle CaptureHandle) (State, []Effect) {
	s.Phase = Active
	s.Draft.RecordingMode = mode
	s.Capture = handle
	s.Pending = ""
	s.Paused = false
	s.FullScreen = mode == ModeNone
	return s, []Effect{StartTicker{Gen: s.Gen}}
}

// stopTiming leaves Active towards AwaitingCapture or LoggingDraft.
func stopTiming(s State) (State, []Effect) {
	effects := []Effect{StopTicker{Gen: s.Gen}}
	s.Gen++
	s.Paused = false
	s.FullScreen = false
	if s.Draft.RecordingMode.Records() && s.Capture != "" {
		s.Phase = AwaitingCapture
		return s, append(effects, FinalizeCapture{DraftID: s.Draft.ID, Handle: s.Capture})
	}
	s.Phase = LoggingDraft
	return s, effects
}

// toIdle clears the draft and counter, stopping the ticker and aborting any
// in-flight capture.
func toIdle(s State) (State, []Effect) {
	var effects []Effect
	if s.Phase == Active {
		effects = append(effects, StopTicker{Gen: s.Gen})
	}
	if s.Capture != "" {
		effects = append(effects, AbortCapture{Handle: s.Capture})
	}
	return State{Phase: Idle, Gen: s.Gen + 1}, effects
}

func mergeFields(d Draft, f Fields) Draft {
	if v := strings.TrimSpace(f.Subject); v != "" {
		d.Subject = v
	}
	if v := strings.TrimSpace(f.Technique); v != "" {
		d.Technique = v
	}
	if v := strings.TrimSpace(f.Mood); v != "" {
		d.Mood = v
	}
	if v := strings.TrimSpace(f.Notes); v != "" {
		d.Notes = v
	}
	return d
}

func startedMessage(mode RecordingMode) (string, string) {
	switch mode {
	case ModeTimelapse:
		return "Time-lapse Recording Started", "Your study session will be recorded as a time-lapse."
	case ModeAIEvaluation:
		return "AI Evaluation Recording Started",
			"Record yourself explaining concepts. The AI will analyze your understanding and provide feedback."
	}
	return "", ""
}

func loggedMessage(rec session.Record, hasMedia bool) string {
	msg := fmt.Sprintf("Great job studying %s for %d minutes!", rec.Subject, rec.DurationMinutes)
	if !hasMedia {
		return msg
	}
	switch RecordingMode(rec.RecordingMode) {
	case ModeAIEvaluation:
		msg += " Your recording is being analyzed by AI for feedback."
	case ModeTimelapse:
		msg += " Your time-lapse recording has been saved."
	}
	return msg
}
