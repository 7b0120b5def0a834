package stats

import (
	"sort"
	"time"

	"github.com/fakeyudi/studious/internal/session"
)

// Achievement is a milestone with its progress towards unlocking.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Unlocked    bool      `json:"unlocked"`
	UnlockedAt  time.Time `json:"unlocked_at"`
	Progress    float64   `json:"progress"`
	MaxProgress float64   `json:"max_progress"`
}

// Achievements evaluates the fixed milestone list against s. Milestones
// counted in sessions carry the time of the session that unlocked them.
func Achievements(s UserStats, records []session.Record) []Achievement {
	byTime := make([]time.Time, len(records))
	for i, r := range records {
		byTime[i] = r.LoggedAt
	}
	sort.Slice(byTime, func(i, j int) bool { return byTime[i].Before(byTime[j]) })
	nth := func(n int) time.Time {
		if n <= len(byTime) {
			return byTime[n-1]
		}
		return time.Time{}
	}

	list := []Achievement{
		milestone("first-steps", "First Steps", "Complete your first study session", "checkmark-circle",
			float64(s.TotalSessions), 1),
		milestone("week-warrior", "Week Warrior", "Study for 7 days in a row", "flame",
			float64(s.LongestStreak), 7),
		milestone("century-club", "Century Club", "Complete 100 study sessions", "trophy",
			float64(s.TotalSessions), 100),
		milestone("marathon-master", "Marathon Master", "Study for 5+ hours in a single day", "time",
			float64(s.BestDayMinutes)/60, 5),
		milestone("social-butterfly", "Social Butterfly", "Join 10 study groups", "people",
			float64(s.GroupsJoined), 10),
		milestone("knowledge-sharer", "Knowledge Sharer", "Get 100 likes on your study posts", "heart",
			float64(s.LikesReceived), 100),
	}
	if list[0].Unlocked {
		list[0].UnlockedAt = nth(1)
	}
	if list[2].Unlocked {
		list[2].UnlockedAt = nth(100)
	}
	return list
}

func milestone(id, title, desc, icon string, progress, target float64) Achievement {
	if progress > target {
		progress = target
	}
	return Achievement{
		ID:          id,
		Title:       title,
		Description: desc,
		Icon:        icon,
		Unlocked:    progress >= target,
		Progress:    progress,
		MaxProgress: target,
	}
}

// Goal is a target with a deadline-free running total.
type Goal struct {
	Title     string  `json:"title"`
	Target    float64 `json:"target"`
	Current   float64 `json:"current"`
	Unit      string  `json:"unit"`
	Completed bool    `json:"completed"`
}

// Percent is the completion percentage, capped at 100.
func (g Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	p := int(g.Current / g.Target * 100)
	if p > 100 {
		p = 100
	}
	return p
}

// Goals evaluates the standing study goals for the month containing now.
func Goals(s UserStats, records []session.Record, now time.Time) []Goal {
	loc := now.Location()
	y, m, _ := now.Date()
	monthMinutes := 0
	for _, r := range records {
		ry, rm, _ := r.LoggedAt.In(loc).Date()
		if ry == y && rm == m {
			monthMinutes += r.DurationMinutes
		}
	}

	goals := []Goal{
		{Title: "Study 20 hours this month", Target: 20, Current: float64(monthMinutes) / 60, Unit: "hours"},
		{Title: "Maintain 30-day streak", Target: 30, Current: float64(s.CurrentStreak), Unit: "days"},
		{Title: "Join 5 study groups", Target: 5, Current: float64(s.GroupsJoined), Unit: "groups"},
	}
	for i := range goals {
		goals[i].Completed = goals[i].Current >= goals[i].Target
	}
	return goals
}
