// Package stats derives profile statistics, achievements and goals from the
// logged sessions.
package stats

import (
	"sort"
	"time"

	"github.com/fakeyudi/studious/internal/session"
)

// UserStats summarises the local user's study history.
type UserStats struct {
	TotalSessions         int `json:"total_sessions"`
	TotalMinutes          int `json:"total_minutes"`
	CurrentStreak         int `json:"current_streak"`
	LongestStreak         int `json:"longest_streak"`
	GroupsJoined          int `json:"groups_joined"`
	GroupsCreated         int `json:"groups_created"`
	LikesReceived         int `json:"likes_received"`
	AverageSessionMinutes int `json:"average_session_minutes"`
	BestDayMinutes        int `json:"best_day_minutes"`
}

// TotalHours is TotalMinutes in whole hours.
func (s UserStats) TotalHours() int { return s.TotalMinutes / 60 }

// Today is the progress made on the current calendar day.
type Today struct {
	Sessions int `json:"sessions"`
	Minutes  int `json:"minutes"`
	Streak   int `json:"streak"`
}

// Compute derives UserStats and Today from records and groups. Calendar days
// are taken in now's location. The current streak may end today or
// yesterday; an older last session means no current streak.
func Compute(records []session.Record, groups []session.Group, now time.Time) (UserStats, Today) {
	var s UserStats
	var today Today
	loc := now.Location()
	todayKey := day(now, loc)

	perDay := make(map[time.Time]int)
	for _, r := range records {
		s.TotalSessions++
		s.TotalMinutes += r.DurationMinutes
		s.LikesReceived += r.Likes
		k := day(r.LoggedAt, loc)
		perDay[k] += r.DurationMinutes
		if k.Equal(todayKey) {
			today.Sessions++
			today.Minutes += r.DurationMinutes
		}
	}
	for _, g := range groups {
		if g.Joined {
			s.GroupsJoined++
		}
		if g.Owner {
			s.GroupsCreated++
		}
	}
	if s.TotalSessions > 0 {
		s.AverageSessionMinutes = s.TotalMinutes / s.TotalSessions
	}
	for _, m := range perDay {
		if m > s.BestDayMinutes {
			s.BestDayMinutes = m
		}
	}

	s.LongestStreak = longestRun(perDay)
	s.CurrentStreak = runEndingAt(perDay, todayKey)
	if s.CurrentStreak == 0 {
		s.CurrentStreak = runEndingAt(perDay, todayKey.AddDate(0, 0, -1))
	}
	today.Streak = s.CurrentStreak
	return s, today
}

func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func runEndingAt(days map[time.Time]int, end time.Time) int {
	n := 0
	for k := end; ; k = k.AddDate(0, 0, -1) {
		if _, ok := days[k]; !ok {
			return n
		}
		n++
	}
}

func longestRun(days map[time.Time]int) int {
	keys := make([]time.Time, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	best, run := 0, 0
	for i, k := range keys {
		if i > 0 && keys[i-1].AddDate(0, 0, 1).Equal(k) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
