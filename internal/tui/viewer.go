// Package tui provides the Bubble Tea study timer and a viewer for
// studious exports.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/studious/internal/export"
	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/session"
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabToday
	tabAchievements
	tabGoals
	tabSessions
	tabGroups
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Today", "Achievements", "Goals", "Sessions", "Groups",
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the export viewer.
type Model struct {
	export    *export.Export
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortAsc   bool
	sessions  []session.Record
	// Sessions tab: cursor position and expanded set, keyed by session ID
	cursor   int
	expanded map[string]bool
}

// New creates a viewer model for e, read from filename.
func New(e *export.Export, filename string) Model {
	m := Model{
		export:   e,
		filename: filepath.Base(filename),
		expanded: make(map[string]bool),
	}
	m.sortSessions()
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case KeyQuit, KeyCtrlC:
			return m, tea.Quit
		case KeyTab, KeyL, KeyRight:
			m.activeTab = (m.activeTab + 1) % tabCount
		case KeyShiftTab, KeyH, KeyLeft:
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5", "6":
			m.activeTab = tabID(msg.String()[0] - '1')
		case KeySort:
			if m.activeTab == tabSessions {
				m.sortAsc = !m.sortAsc
				m.sortSessions()
				m.cursor = 0
				m.rebuildSessionsViewport()
				m.viewports[tabSessions].GotoTop()
			}
		case KeyUp, KeyK:
			if m.activeTab == tabSessions && m.cursor > 0 {
				m.cursor--
				m.rebuildSessionsViewport()
				return m, nil
			}
		case KeyDown, KeyJ:
			if m.activeTab == tabSessions && m.cursor < len(m.sessions)-1 {
				m.cursor++
				m.rebuildSessionsViewport()
				return m, nil
			}
		case KeyEnter, KeySpace:
			if m.activeTab == tabSessions && len(m.sessions) > 0 {
				id := m.sessions[m.cursor].ID
				if m.expanded[id] {
					delete(m.expanded, id)
				} else {
					m.expanded[id] = true
				}
				m.rebuildSessionsViewport()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	// ── Row 1: title bar ──────────────────────────────────────────────────────
	title := titleStyle.Width(m.width).Render("  studious  " + m.filename)

	// ── Row 2: tab bar ────────────────────────────────────────────────────────
	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	// ── Row 3…N-1: scrollable content ────────────────────────────────────────
	content := m.viewports[m.activeTab].View()

	// ── Row N: status / hint bar ──────────────────────────────────────────────
	hint := "  ←/→ tab  ↑/↓ scroll  1-6 jump  q quit"
	if m.activeTab == tabSessions {
		dir := "newest first"
		if m.sortAsc {
			dir = "oldest first"
		}
		hint = "  ←/→ tab  ↑/↓ select  enter notes  s sort (" + dir + ")  q quit"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildSessionsViewport() {
	m.viewports[tabSessions].SetContent(m.renderTab(tabSessions))
}

func (m *Model) sortSessions() {
	m.sessions = make([]session.Record, len(m.export.Sessions))
	copy(m.sessions, m.export.Sessions)
	if m.sortAsc {
		sort.SliceStable(m.sessions, func(i, j int) bool { return m.sessions[i].LoggedAt.Before(m.sessions[j].LoggedAt) })
	} else {
		sort.SliceStable(m.sessions, func(i, j int) bool { return m.sessions[i].LoggedAt.After(m.sessions[j].LoggedAt) })
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabToday:
		return m.renderToday()
	case tabAchievements:
		return m.renderAchievements()
	case tabGoals:
		return m.renderGoals()
	case tabSessions:
		return m.renderSessions()
	case tabGroups:
		return m.renderGroups()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
}

func (m *Model) renderSummary() string {
	e := m.export
	p := e.Profile
	s := e.Stats
	var sb strings.Builder
	sb.WriteString(heading("Profile"))

	name := p.Name
	if name == "" {
		name = "You"
	}
	row(&sb, "Name:", fmt.Sprintf("%s (%s)", name, p.Initials()))
	if p.University != "" {
		row(&sb, "University:", p.University)
	}
	row(&sb, "Generated:", timeStyle.Render(e.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	sb.WriteString(heading("Totals"))
	row(&sb, "Sessions:", fmt.Sprintf("%d", s.TotalSessions))
	row(&sb, "Study Time:", feed.FormatDuration(s.TotalMinutes))
	row(&sb, "Average:", feed.FormatDuration(s.AverageSessionMinutes))
	row(&sb, "Best Day:", feed.FormatDuration(s.BestDayMinutes))
	row(&sb, "Current Streak:", plural(s.CurrentStreak, "day"))
	row(&sb, "Longest Streak:", plural(s.LongestStreak, "day"))
	row(&sb, "Likes Received:", fmt.Sprintf("%d", s.LikesReceived))
	row(&sb, "Groups:", fmt.Sprintf("%d joined, %d created", s.GroupsJoined, s.GroupsCreated))
	return sb.String()
}

func (m *Model) renderToday() string {
	t := m.export.Today
	var sb strings.Builder
	sb.WriteString(heading("Today's Progress"))
	row(&sb, "Sessions:", fmt.Sprintf("%d", t.Sessions))
	row(&sb, "Study Time:", feed.FormatDuration(t.Minutes))
	row(&sb, "Streak:", plural(t.Streak, "day"))
	if t.Sessions == 0 {
		sb.WriteString("\n" + dimStyle.Render("  No sessions logged today yet.") + "\n")
	}
	return sb.String()
}

func (m *Model) renderAchievements() string {
	var sb strings.Builder
	list := m.export.Achievements
	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	sb.WriteString(heading(fmt.Sprintf("Achievements (%d/%d)", unlocked, len(list))))
	if len(list) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, a := range list {
		if a.Unlocked {
			line := unlockedStyle.Render(a.Icon + "  " + a.Title)
			if !a.UnlockedAt.IsZero() {
				line += "  " + timeStyle.Render(a.UnlockedAt.Format("2006-01-02"))
			}
			sb.WriteString("  " + line + "\n")
		} else {
			sb.WriteString("  " + lockedStyle.Render(fmt.Sprintf("%s  %s  %s", a.Icon, a.Title,
				progress(a.Progress, a.MaxProgress))) + "\n")
		}
		sb.WriteString("     " + dimStyle.Render(a.Description) + "\n\n")
	}
	return sb.String()
}

func (m *Model) renderGoals() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Goals (%d)", len(m.export.Goals))))
	if len(m.export.Goals) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, g := range m.export.Goals {
		mark := lockedStyle.Render("○")
		if g.Completed {
			mark = unlockedStyle.Render("●")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", mark, g.Title))
		sb.WriteString(fmt.Sprintf("     %s  %s / %s %s  (%d%%)\n\n",
			bar(g.Percent(), 20), trim(g.Current), trim(g.Target), g.Unit, g.Percent()))
	}
	return sb.String()
}

func (m *Model) renderSessions() string {
	var sb strings.Builder
	dir := "newest first"
	if m.sortAsc {
		dir = "oldest first"
	}
	sb.WriteString(heading(fmt.Sprintf("Sessions (%d, %s)", len(m.sessions), dir)))
	if len(m.sessions) == 0 {
		sb.WriteString(dimStyle.Render("  (no sessions logged)") + "\n")
		return sb.String()
	}
	for i, r := range m.sessions {
		ts := timeStyle.Render(r.LoggedAt.Format("2006-01-02 15:04"))
		hasNotes := r.Notes != "" || r.MediaPath != ""
		expanded := m.expanded[r.ID]

		toggle := "    "
		if hasNotes {
			toggle = dimStyle.Render("  ▶ ")
			if expanded {
				toggle = dimStyle.Render("  ▼ ")
			}
		}

		mood := r.Mood
		if md, ok := flow.LookupMood(r.Mood); ok {
			mood = md.Emoji + " " + md.Name
		}
		line := fmt.Sprintf("%s%s  %-18s %6s  %s", toggle, ts, r.Subject, feed.FormatDuration(r.DurationMinutes), mood)
		if r.Shared {
			line += "  " + likeStyle.Render(fmt.Sprintf("♥ %d", r.Likes))
		}
		if i == m.cursor {
			line = selectedRowStyle.Width(max(m.width-2, 0)).Render(line)
		}
		sb.WriteString(line + "\n")

		if expanded && hasNotes {
			sb.WriteString(bullet("Technique: " + r.Technique))
			if label := flow.RecordingMode(r.RecordingMode).Label(); r.MediaPath != "" {
				sb.WriteString(bullet(badgeStyle.Render(label) + "  " + r.MediaPath))
			}
			if r.Notes != "" {
				sb.WriteString(dimStyle.Render(indent(r.Notes, "      ")) + "\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderGroups() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Study Groups (%d)", len(m.export.Groups))))
	if len(m.export.Groups) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for _, g := range m.export.Groups {
		var tags []string
		if g.Owner {
			tags = append(tags, "owner")
		}
		if g.Joined {
			tags = append(tags, "joined")
		}
		line := g.Name
		if g.Subject != "" {
			line += dimStyle.Render("  " + g.Subject)
		}
		line += "  " + dimStyle.Render(plural(g.Members, "member"))
		if len(tags) > 0 {
			line += "  " + badgeStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		sb.WriteString(bullet(line))
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func progress(cur, target float64) string {
	return fmt.Sprintf("%s/%s", trim(cur), trim(target))
}

// trim formats f without a fractional part when it has none.
func trim(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}

func bar(pct, width int) string {
	filled := pct * width / 100
	return unlockedStyle.Render(strings.Repeat("█", filled)) + lockedStyle.Render(strings.Repeat("░", width-filled))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Run starts the viewer for e.
func Run(e *export.Export, filename string) error {
	p := tea.NewProgram(New(e, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
