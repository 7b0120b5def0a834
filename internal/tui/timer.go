package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/fakeyudi/studious/internal/capture"
	"github.com/fakeyudi/studious/internal/feed"
	"github.com/fakeyudi/studious/internal/flow"
	"github.com/fakeyudi/studious/internal/session"
	"github.com/fakeyudi/studious/internal/store"
)

// errNoRepository is reported when a session is saved without a store.
var errNoRepository = errors.New("no session store configured")

// Deps wires the timer flow to its collaborators.
type Deps struct {
	Ctx         context.Context
	Device      capture.Device
	Repo        store.Repository
	Checkpoints session.CheckpointStore // optional
	Author      string
	Subject     string             // subject preset on every new draft
	Share       bool               // initial state of the share toggle
	PreferMode  flow.RecordingMode // preselected recording mode
	Now         func() time.Time
	NewID       func() string
	Log         *slog.Logger
}

// ── Messages ────────────

// tickMsg is one second of the ticker started under gen.
type tickMsg struct{ gen int }

// flowMsg carries a collaborator result back into the flow.
type flowMsg struct{ ev flow.Event }

// savedMsg reports a session that reached the store.
type savedMsg struct{ id string }

// ── Form ────────────

const (
	fieldSubject = iota
	fieldTechnique
	fieldMood
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Subject", "Technique", "Mood", "Notes"}

// ── Model ────────────

// TimerModel drives a flow.State from keyboard input, ticks and collaborator
// results, and executes the effects each transition emits.
type TimerModel struct {
	deps      Deps
	state     flow.State
	startedAt time.Time

	modeCursor   int
	promptCursor int

	inputs [fieldCount]textinput.Model
	focus  int
	share  bool

	notice   string
	width    int
	height   int
	quitting bool
}

// NewTimer returns an idle timer wired to deps. Missing dependencies get
// working defaults; a nil Device refuses every recording.
func NewTimer(deps Deps) TimerModel {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Device == nil {
		deps.Device = capture.Deny{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	m := TimerModel{deps: deps, share: deps.Share}
	for i, mode := range flow.Modes {
		if mode == deps.PreferMode {
			m.modeCursor = i
		}
	}
	placeholders := [fieldCount]string{
		"What are you studying?",
		"Pomodoro Technique, Feynman Technique, ...",
		"How are you feeling?",
		"What did you accomplish? (optional)",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	return m
}

// State returns the current flow state.
func (m TimerModel) State() flow.State { return m.state }

// ── Bubble Tea interface ───────────────

func (m TimerModel) Init() tea.Cmd { return nil }

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		next, cmd := m.apply(flow.Tick{Gen: msg.gen})
		if next.state.Phase == flow.Active && next.state.Gen == msg.gen {
			return next, tea.Batch(cmd, tick(msg.gen))
		}
		return next, cmd

	case flowMsg:
		return m.apply(msg.ev)

	case savedMsg:
		m.deps.Log.Info("session saved", "session_id", msg.id)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state.Phase == flow.LoggingDraft {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply runs ev through the flow and turns the emitted effects into commands.
func (m TimerModel) apply(ev flow.Event) (TimerModel, tea.Cmd) {
	prev := m.state
	next, effects := flow.Transition(m.state, ev)
	m.state = next

	cmds := m.run(effects)
	m.syncCheckpoint(prev)

	if prev.Phase != flow.LoggingDraft && next.Phase == flow.LoggingDraft {
		cmds = append(cmds, m.resetForm())
	}
	if prev.Prompt != next.Prompt {
		m.promptCursor = 0
	}
	return m, tea.Batch(cmds...)
}

func (m *TimerModel) run(effects []flow.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case flow.StartTicker:
			cmds = append(cmds, tick(e.Gen))
		case flow.StopTicker:
			m.deps.Log.Debug("ticker stopped", "gen", e.Gen)
		case flow.AcquireCapture:
			cmds = append(cmds, acquireCmd(m.deps.Ctx, m.deps.Device, e))
		case flow.FinalizeCapture:
			cmds = append(cmds, finalizeCmd(m.deps.Ctx, m.deps.Device, e))
		case flow.AbortCapture:
			cmds = append(cmds, abortCmd(m.deps.Ctx, m.deps.Device, m.deps.Log, e.Handle))
		case flow.SaveSession:
			rec := e.Record
			if rec.Author == "" {
				rec.Author = m.deps.Author
			}
			cmds = append(cmds, saveCmd(m.deps.Ctx, m.deps.Repo, rec))
		case flow.Notify:
			m.notice = e.Title + "  " + e.Message
		case flow.LogWarning:
			attrs := []any{"draft_id", e.DraftID}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			m.deps.Log.Warn(e.Msg, attrs...)
		}
	}
	return cmds
}

// syncCheckpoint mirrors the live flow to disk so other invocations can see it.
func (m *TimerModel) syncCheckpoint(prev flow.State) {
	cp := m.deps.Checkpoints
	if cp == nil {
		return
	}
	if m.state.Phase == flow.Idle {
		if prev.Phase != flow.Idle {
			if err := cp.Delete(); err != nil {
				m.deps.Log.Warn("checkpoint delete failed", "error", err)
			}
		}
		return
	}

	now := m.deps.Now()
	if prev.Phase == flow.Idle {
		m.startedAt = now
	}
	mode := m.state.Pending
	if mode == "" && m.state.Phase != flow.ChoosingRecordingMode {
		mode = m.state.Draft.Mode()
	}
	c := &session.Checkpoint{
		DraftID:        m.state.Draft.ID,
		PID:            os.Getpid(),
		Phase:          m.state.Phase.String(),
		DisplayTime:    flow.FormatElapsed(m.state.Draft.ElapsedSeconds),
		ElapsedSeconds: m.state.Draft.ElapsedSeconds,
		Paused:         m.state.Paused,
		Subject:        m.state.Draft.Subject,
		RecordingMode:  string(mode),
		StartedAt:      m.startedAt,
		UpdatedAt:      now,
	}
	if err := cp.Save(c); err != nil {
		m.deps.Log.Warn("checkpoint save failed", "draft_id", c.DraftID, "error", err)
	}
}

// ── Commands ────────────

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func acquireCmd(ctx context.Context, d capture.Device, e flow.AcquireCapture) tea.Cmd {
	return func() tea.Msg {
		return flowMsg{ev: capture.Acquire(ctx, d, e.DraftID, e.Mode)}
	}
}

func finalizeCmd(ctx context.Context, d capture.Device, e flow.FinalizeCapture) tea.Cmd {
	return func() tea.Msg {
		return flowMsg{ev: capture.Finalize(ctx, d, e.DraftID, e.Handle)}
	}
}

func abortCmd(ctx context.Context, d capture.Device, log *slog.Logger, h flow.CaptureHandle) tea.Cmd {
	return func() tea.Msg {
		if err := d.Abort(ctx, h); err != nil {
			log.Warn("capture abort failed", "handle", string(h), "error", err)
		}
		return nil
	}
}

func saveCmd(ctx context.Context, repo store.Repository, rec session.Record) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return flowMsg{ev: flow.SessionSaveFailed{SessionID: rec.ID, Err: errNoRepository}}
		}
		if err := repo.SaveSession(ctx, &rec); err != nil {
			return flowMsg{ev: flow.SessionSaveFailed{SessionID: rec.ID, Err: err}}
		}
		return savedMsg{id: rec.ID}
	}
}

// ── Keys ────────────

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		return m.quit()
	}
	if m.state.Prompt != flow.PromptNone {
		return m.handlePromptKey(key)
	}

	switch m.state.Phase {
	case flow.Idle:
		switch key {
		case KeyQuit, KeyEsc:
			return m.quit()
		case KeyEnter, KeyStart:
			return m.start()
		}

	case flow.ChoosingRecordingMode:
		switch key {
		case KeyUp, KeyK:
			m.modeCursor = (m.modeCursor - 1 + len(flow.Modes)) % len(flow.Modes)
		case KeyDown, KeyJ:
			m.modeCursor = (m.modeCursor + 1) % len(flow.Modes)
		case "1", "2", "3":
			m.modeCursor = int(key[0] - '1')
			return m.apply(flow.SelectMode{Mode: flow.Modes[m.modeCursor]})
		case KeyEnter:
			return m.apply(flow.SelectMode{Mode: flow.Modes[m.modeCursor]})
		case KeyEsc, KeyBack:
			return m.apply(flow.Back{})
		case KeyNextPick, KeyPrevPick:
			step := 1
			if key == KeyPrevPick {
				step = -1
			}
			subject := nextPick(flow.Subjects, m.state.Draft.Subject, step)
			return m.apply(flow.UpdateDraft{Fields: flow.Fields{Subject: subject}})
		}

	case flow.Active:
		switch key {
		case KeySpace, KeyPause:
			return m.apply(flow.TogglePause{})
		case KeyEnter, KeyStop:
			return m.apply(flow.Stop{})
		case KeyReset:
			return m.apply(flow.Reset{})
		case KeyEsc, KeyFocus:
			return m.apply(flow.ExitFocus{})
		case KeyQuit:
			if m.state.FullScreen {
				return m.apply(flow.ExitFocus{})
			}
			return m.apply(flow.Reset{})
		}

	case flow.LoggingDraft:
		return m.handleFormKey(msg)
	}
	return m, nil
}

// start opens a new draft, carrying over the preset subject.
func (m TimerModel) start() (tea.Model, tea.Cmd) {
	m.notice = ""
	next, cmd := m.apply(flow.Start{DraftID: m.deps.NewID()})
	if m.deps.Subject == "" {
		return next, cmd
	}
	next, update := next.apply(flow.UpdateDraft{Fields: flow.Fields{Subject: m.deps.Subject}})
	return next, tea.Batch(cmd, update)
}

func (m TimerModel) handlePromptKey(key string) (tea.Model, tea.Cmd) {
	n := len(flow.PromptDialog(m.state.Prompt).Choices)
	switch key {
	case KeyLeft, KeyUp, KeyH, KeyK, KeyShiftTab:
		m.promptCursor = (m.promptCursor - 1 + n) % n
	case KeyRight, KeyDown, KeyL, KeyJ, KeyTab:
		m.promptCursor = (m.promptCursor + 1) % n
	case KeyEnter:
		return m.apply(flow.Answer(m.state.Prompt, m.promptCursor))
	case KeyEsc:
		return m.apply(flow.Answer(m.state.Prompt, 0))
	case "1", "2", "3":
		if i := int(key[0] - '1'); i < n {
			return m.apply(flow.Answer(m.state.Prompt, i))
		}
	}
	return m, nil
}

func (m TimerModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		return m.apply(flow.DiscardDraft{})
	case KeySave:
		return m.save()
	case KeyShare:
		m.share = !m.share
		return m, nil
	case KeyTab, KeyDown:
		return m, m.focusField((m.focus + 1) % fieldCount)
	case KeyShiftTab, KeyUp:
		return m, m.focusField((m.focus - 1 + fieldCount) % fieldCount)
	case KeyNextPick:
		m.cyclePick(1)
		return m, nil
	case KeyPrevPick:
		m.cyclePick(-1)
		return m, nil
	case KeyEnter:
		if m.focus == fieldNotes {
			return m.save()
		}
		return m, m.focusField(m.focus + 1)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m TimerModel) save() (tea.Model, tea.Cmd) {
	return m.apply(flow.SaveDraft{Fields: m.fields(), At: m.deps.Now()})
}

func (m TimerModel) fields() flow.Fields {
	return flow.Fields{
		Subject:   m.inputs[fieldSubject].Value(),
		Technique: m.inputs[fieldTechnique].Value(),
		Mood:      m.inputs[fieldMood].Value(),
		Notes:     m.inputs[fieldNotes].Value(),
		Share:     m.share,
	}
}

func (m *TimerModel) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// picks is the pick list offered for a form field.
func picks(field int) []string {
	switch field {
	case fieldSubject:
		return flow.Subjects
	case fieldTechnique:
		return flow.TechniqueNames()
	case fieldMood:
		return flow.MoodNames()
	}
	return nil
}

// cyclePick replaces the focused field with the next pick-list entry.
func (m *TimerModel) cyclePick(step int) {
	list := picks(m.focus)
	if len(list) == 0 {
		return
	}
	m.inputs[m.focus].SetValue(nextPick(list, m.inputs[m.focus].Value(), step))
	m.inputs[m.focus].CursorEnd()
}

// nextPick steps through list from cur. A value not in the list starts at
// either end depending on direction.
func nextPick(list []string, cur string, step int) string {
	i := -1
	for j, v := range list {
		if strings.EqualFold(v, cur) {
			i = j
		}
	}
	switch {
	case i == -1 && step < 0:
		i = len(list) - 1
	case i == -1:
		i = 0
	default:
		i = (i + step + len(list)) % len(list)
	}
	return list[i]
}

// resetForm loads the draft into the form and focuses the first empty field.
func (m *TimerModel) resetForm() tea.Cmd {
	d := m.state.Draft
	values := [fieldCount]string{d.Subject, d.Technique, d.Mood, d.Notes}
	first := -1
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].Blur()
		if first == -1 && values[i] == "" {
			first = i
		}
	}
	if first == -1 {
		first = fieldNotes
	}
	m.focus = first
	return tea.Batch(m.inputs[first].Focus(), textinput.Blink)
}

// quit abandons any live draft and ends the program. Commands do not run
// after tea.Quit, so capture and checkpoint cleanup happen here.
func (m TimerModel) quit() (tea.Model, tea.Cmd) {
	if h := m.state.Capture; h != "" {
		if err := m.deps.Device.Abort(m.deps.Ctx, h); err != nil {
			m.deps.Log.Warn("capture abort failed", "handle", string(h), "error", err)
		}
	}
	if m.state.Phase != flow.Idle {
		m.deps.Log.Info("draft abandoned on quit", "draft_id", m.state.Draft.ID, "phase", m.state.Phase.String())
		if cp := m.deps.Checkpoints; cp != nil {
			if err := cp.Delete(); err != nil {
				m.deps.Log.Warn("checkpoint delete failed", "error", err)
			}
		}
	}
	m.quitting = true
	return m, tea.Quit
}

// ── View ────────────

func (m TimerModel) View() string {
	if m.quitting {
		return ""
	}
	p := flow.Project(m.state)

	var body string
	switch m.state.Phase {
	case flow.Idle:
		body = m.viewIdle(p)
	case flow.ChoosingRecordingMode:
		body = m.viewChoosing(p)
	case flow.Active:
		body = m.viewActive(p)
	case flow.AwaitingCapture:
		body = lipgloss.JoinVertical(lipgloss.Center,
			clockStyle.Render(p.DisplayTime),
			"",
			dimStyle.Render(p.StatusLabel),
		)
	case flow.LoggingDraft:
		body = m.viewForm(p)
	}

	parts := []string{body}
	if p.Prompt != flow.PromptNone {
		parts = append(parts, "", m.viewDialog(p.Prompt))
	}
	if p.Error != "" {
		parts = append(parts, "", errorStyle.Render(p.Error))
	}
	if m.notice != "" && m.state.Phase == flow.Idle {
		parts = append(parts, "", noticeStyle.Render(m.notice))
	}
	parts = append(parts, "", hintStyle.Render(m.hint()))

	out := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, out)
	}
	return out
}

func (m TimerModel) viewIdle(p flow.Projection) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("studious"),
		"",
		clockStyle.Render(p.DisplayTime),
		"",
		p.StatusLabel,
	)
}

func (m TimerModel) viewChoosing(p flow.Projection) string {
	var sb strings.Builder
	sb.WriteString(sectionHeader.Render(p.StatusLabel) + "\n\n")
	for i, mode := range flow.Modes {
		line := fmt.Sprintf("%d  %-22s %s", i+1, mode.Label(), dimStyle.Render(mode.Description()))
		if i == m.modeCursor {
			line = selectedRowStyle.Render(fmt.Sprintf("%d  %-22s", i+1, mode.Label())) + " " + mode.Description()
		}
		sb.WriteString(line + "\n")
	}
	subject := m.state.Draft.Subject
	if subject == "" {
		subject = dimStyle.Render("none yet")
	}
	fmt.Fprintf(&sb, "\n%s %s\n", labelStyle.Render("Subject:"), subject)
	return sb.String()
}

func (m TimerModel) viewActive(p flow.Projection) string {
	clock := clockStyle
	locked := lockedInStyle
	if m.state.Paused {
		clock = pausedClockStyle
		locked = lockedOutStyle
	}
	lines := []string{
		locked.Render(p.PausedLabel),
		"",
		clock.Render(p.DisplayTime),
	}
	if !p.FullScreen {
		lines = append(lines, "", p.StatusLabel, dimStyle.Render(p.RecordingModeLabel))
		if p.Subject != "" {
			lines = append(lines, labelStyle.Render(p.Subject))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m TimerModel) viewForm(p flow.Projection) string {
	var sb strings.Builder
	sb.WriteString(sectionHeader.Render(p.StatusLabel) + "\n\n")
	minutes := m.state.Draft.ElapsedSeconds / 60
	fmt.Fprintf(&sb, "%s  %s (%s)\n\n", labelStyle.Render("Studied:"), feed.FormatDuration(minutes), p.DisplayTime)

	for i := range m.inputs {
		label := fmt.Sprintf("%-10s", fieldLabels[i]+":")
		if i == m.focus {
			label = selectedRowStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		sb.WriteString(label + " " + m.inputs[i].View() + "\n")
	}
	if p.RecordingModeLabel != "" && m.state.Draft.Mode().Records() {
		media := "no recording attached"
		if m.state.Draft.Media != nil {
			media = m.state.Draft.Media.Path
		}
		fmt.Fprintf(&sb, "\n%s %s\n", badgeStyle.Render(p.RecordingModeLabel+":"), dimStyle.Render(media))
	}

	check := "[ ]"
	if m.share {
		check = "[x]"
	}
	sb.WriteString("\n" + check + " Share to Feed\n")
	return sb.String()
}

func (m TimerModel) viewDialog(p flow.Prompt) string {
	d := flow.PromptDialog(p)
	var choices []string
	for i, c := range d.Choices {
		if i == m.promptCursor {
			choices = append(choices, activeChoiceStyle.Render(c))
		} else {
			choices = append(choices, choiceStyle.Render(c))
		}
	}
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		sectionHeader.Render(d.Title),
		"",
		d.Message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, choices...),
	))
}

func (m TimerModel) hint() string {
	if m.state.Prompt != flow.PromptNone {
		return "←/→ choose  enter confirm  esc cancel"
	}
	switch m.state.Phase {
	case flow.Idle:
		return "enter start  q quit"
	case flow.ChoosingRecordingMode:
		return "↑/↓ select  enter choose  1-3 quick pick  ctrl+n/ctrl+p subject  esc back"
	case flow.Active:
		if m.state.FullScreen {
			return "space pause  s stop  r reset  esc exit focus"
		}
		return "space pause  s stop  r reset"
	case flow.AwaitingCapture:
		return "ctrl+c quit"
	case flow.LoggingDraft:
		return "tab next field  ctrl+n/ctrl+p pick  ctrl+t share  ctrl+s save  esc discard"
	}
	return ""
}

// RunTimer starts the interactive timer.
func RunTimer(deps Deps) error {
	p := tea.NewProgram(NewTimer(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
