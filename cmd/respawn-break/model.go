package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/progress"
)

type programReadyMsg struct {
	program *tea.Program
}

type sessionEventMsg struct {
	event engine.Event
}

type bridgeClosedMsg struct{}

// startBridge subscribes to the engine and forwards its events into the
// program. The subscription is live when this returns, so nothing emitted
// afterwards can be missed. The goroutine ends when the engine closes its
// subscriber channels.
func startBridge(p *tea.Program, eng *engine.Engine) {
	events := eng.Subscribe(16)
	go func() {
		for ev := range events {
			p.Send(sessionEventMsg{event: ev})
		}
		p.Send(bridgeClosedMsg{})
	}()
}

type keyMap struct {
	Pause    key.Binding
	Skip     key.Binding
	Complete key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Skip:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip exercise")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "finish early")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Skip, k.Complete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Skip},
		{k.Complete, k.Quit},
	}
}

// model renders one break session as a single card and maps keys onto the
// engine operations. All timer state arrives through sessionEventMsg; the
// model itself never counts time.
type model struct {
	eng    *engine.Engine
	report progress.Report
	keys   keyMap
	help   help.Model
	notice string
	width  int
	height int
}

func newModel(eng *engine.Engine, notice string) model {
	return model{
		eng:    eng,
		report: progress.FromSnapshot(eng.Plan(), eng.Snapshot()),
		keys:   defaultKeys(),
		help:   help.New(),
		notice: notice,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case programReadyMsg:
		startBridge(msg.program, m.eng)
		eng := m.eng
		return m, func() tea.Msg {
			_ = eng.Start()
			return nil
		}

	case sessionEventMsg:
		m.report = progress.FromSnapshot(m.eng.Plan(), msg.event.Snapshot)
		return m, nil

	case bridgeClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		_ = m.eng.Close()
		return m, tea.Quit
	case " ":
		if m.report.Status == engine.StatusRunning {
			_ = m.eng.Pause()
		} else {
			_ = m.eng.Start()
		}
	case "s":
		_ = m.eng.Skip()
	case "c":
		_ = m.eng.Complete()
	}
	return m, nil
}

func (m model) View() string {
	var card string
	if m.report.Status == engine.StatusCompleted {
		card = m.renderCompleted()
	} else {
		card = m.renderSession()
	}

	body := lipgloss.JoinVertical(lipgloss.Left, card, "", m.help.View(m.keys))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (m model) renderSession() string {
	r := m.report

	displayIndex := r.ExerciseIndex + 1
	if displayIndex > r.ExerciseCount {
		displayIndex = r.ExerciseCount
	}
	header := titleStyle.Render(r.Title) +
		mutedStyle.Render(fmt.Sprintf("  exercise %d/%d", displayIndex, r.ExerciseCount))

	lines := []string{header}
	if r.Intro != "" {
		lines = append(lines, mutedStyle.Render(r.Intro))
	}
	lines = append(lines, "")

	countdown := countdownStyle.Render(r.Countdown) + mutedStyle.Render(" remaining")
	if r.Status == engine.StatusPaused {
		countdown += "  " + pausedStyle.Render("[paused]")
	}
	lines = append(lines,
		countdown,
		fmt.Sprintf("%s %d%%", progress.Bar(r.Fraction, barWidth), r.Percent),
		"",
	)

	if cur, ok := r.Current(); ok {
		lines = append(lines,
			exerciseStyle.Render(cur.Name)+mutedStyle.Render("  "+r.ExerciseCountdown),
			cur.Description,
			benefitStyle.Render("Benefit: "+cur.Benefit),
		)
	}

	if upcoming := m.renderUpcoming(); upcoming != "" {
		lines = append(lines, "", upcoming)
	}

	lines = append(lines, "", footerStyle.Render("Follow along with these exercises to reduce gaming fatigue!"))
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m model) renderUpcoming() string {
	r := m.report
	next := make([]string, 0, upcomingShown)
	for i := r.ExerciseIndex + 1; i < len(r.Exercises) && len(next) < upcomingShown; i++ {
		e := r.Exercises[i]
		next = append(next, mutedStyle.Render(fmt.Sprintf("  %d. %s  (%s)", i+1, e.Name, e.DisplayDuration)))
	}
	if len(next) == 0 {
		return ""
	}

	out := mutedStyle.Render("Up next:") + "\n" + strings.Join(next, "\n")
	rest := len(r.Exercises) - r.ExerciseIndex - 1 - len(next)
	if rest > 0 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("  ...and %d more", rest))
	}
	return out
}

func (m model) renderCompleted() string {
	r := m.report
	unit := "minutes"
	if r.MinutesTaken == 1 {
		unit = "minute"
	}

	lines := []string{
		titleStyle.Render("Workout Complete!"),
		"",
		fmt.Sprintf("Great job! You completed your break in %d %s.", r.MinutesTaken, unit),
		"",
		benefitStyle.Render("- Reduced eye strain and muscle tension"),
		benefitStyle.Render("- Improved circulation and energy"),
		benefitStyle.Render("- Enhanced focus for your next gaming session"),
		"",
		mutedStyle.Render("Remember to take regular breaks during long gaming sessions!"),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
