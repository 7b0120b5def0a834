package flow

import "strings"

// Technique is a study technique offered on the logging form.
type Technique struct {
	Name        string
	Description string
}

// Techniques is the fixed technique list.
var Techniques = []Technique{
	{Name: "Pomodoro Technique", Description: "25 min focused work + 5 min break"},
	{Name: "Feynman Technique", Description: "Explain concepts like you are teaching someone"},
	{Name: "Active Recall", Description: "Test yourself frequently"},
	{Name: "Standard", Description: "Review notes and materials, practice, stay focused"},
}

// Subjects are quick-select suggestions; any subject text is accepted.
var Subjects = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "Computer Science",
	"History", "Literature", "Economics", "Psychology", "Philosophy",
	"Engineering", "Medicine", "Law", "Business", "Art", "Music", "Other",
}

// Mood is a self-reported mood with its display emoji and color.
type Mood struct {
	Name  string
	Emoji string
	Color string
}

// Moods is the fixed mood list.
var Moods = []Mood{
	{Name: "Focused", Emoji: "🎯", Color: "#10B981"},
	{Name: "Motivated", Emoji: "💪", Color: "#3B82F6"},
	{Name: "Energetic", Emoji: "⚡", Color: "#F59E0B"},
	{Name: "Calm", Emoji: "😌", Color: "#8B5CF6"},
	{Name: "Tired", Emoji: "😴", Color: "#6B7280"},
	{Name: "Stressed", Emoji: "😰", Color: "#EF4444"},
}

// TechniqueNames returns the technique names in catalog order.
func TechniqueNames() []string {
	names := make([]string, len(Techniques))
	for i, t := range Techniques {
		names[i] = t.Name
	}
	return names
}

// MoodNames returns the mood names in catalog order.
func MoodNames() []string {
	names := make([]string, len(Moods))
	for i, m := range Moods {
		names[i] = m.Name
	}
	return names
}

// LookupMood returns the catalog entry for name, case-insensitively.
func LookupMood(name string) (Mood, bool) {
	for _, m := range Moods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Mood{}, false
}
