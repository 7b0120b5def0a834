package session

import "time"

// Record is a logged study session, as handed to the persistence layer.
type Record struct {
	ID              string    `json:"id"`
	Author          string    `json:"author,omitempty"`
	Subject         string    `json:"subject"`
	Technique       string    `json:"technique"`
	Mood            string    `json:"mood"`
	Notes           string    `json:"notes,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	ElapsedSeconds  int       `json:"elapsed_seconds"`
	RecordingMode   string    `json:"recording_mode"` // "none" | "timelapse" | "ai-evaluation"
	MediaPath       string    `json:"media_path,omitempty"`
	Shared          bool      `json:"shared"`
	Likes           int       `json:"likes"`
	Liked           bool      `json:"liked"`
	LoggedAt        time.Time `json:"logged_at"`
}

// Checkpoint is a snapshot of a live timer flow. It lets `studious status`
// and a second `studious study` see a session running in another terminal.
type Checkpoint struct {
	DraftID        string    `json:"draft_id"`
	PID            int       `json:"pid"`
	Phase          string    `json:"phase"`
	DisplayTime    string    `json:"display_time"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Paused         bool      `json:"paused"`
	Subject        string    `json:"subject,omitempty"`
	RecordingMode  string    `json:"recording_mode,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Group is a study group. Membership is tracked for the local user only.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject,omitempty"`
	Members   int       `json:"members"`
	Joined    bool      `json:"joined"`
	Owner     bool      `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}
