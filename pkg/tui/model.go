// Package tui implements the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/oisee/chordpad/pkg/arp"
	"github.com/oisee/chordpad/pkg/chord"
	"github.com/oisee/chordpad/pkg/keymap"
	"github.com/oisee/chordpad/pkg/pad"
)

// Loader prepares the sound output. It runs as a tea.Cmd, off the UI
// goroutine.
type Loader func(ctx context.Context) (arp.Player, error)

// Model is the main TUI model
type Model struct {
	pad  *pad.Controller
	load Loader
	keys keyMap
	help help.Model

	// View state
	Width  int
	Height int

	snap pad.View

	// Status message
	StatusMsg string
}

// NewModel creates a new TUI model around the controller
func NewModel(c *pad.Controller, layout *keymap.Map, load Loader) Model {
	m := Model{
		pad:    c,
		load:   load,
		keys:   newKeyMap(layout),
		help:   help.New(),
		Width:  80,
		Height: 24,
	}
	m.snap = c.View()
	return m
}

// Init implements tea.Model. The sound starts loading right away; a
// chord key pressed before it is ready is dropped.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, tickCmd()}
	if m.load != nil && m.pad.Preload() {
		cmds = append(cmds, loadCmd(m.load))
	}
	return tea.Batch(cmds...)
}

// tickMsg refreshes the status from the scheduler
type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(16_666_666, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadedMsg carries the result of a Loader
type loadedMsg struct {
	player arp.Player
	err    error
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		p, err := load(context.Background())
		return loadedMsg{player: p, err: err}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.snap = m.pad.View()
		return m, tickCmd()

	case loadedMsg:
		if msg.err != nil {
			m.pad.Failed(msg.err)
			m.StatusMsg = "Sound unavailable, press a chord key to retry"
		} else {
			m.pad.Ready(msg.player)
			m.StatusMsg = "Ready"
		}
		m.snap = m.pad.View()
		return m, nil

	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		next.snap = next.pad.View()
		return next, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.pad.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Arpeggio):
		if m.pad.ToggleArpeggio() {
			m.StatusMsg = "Arpeggio on"
		} else {
			m.StatusMsg = "Arpeggio off"
		}

	case key.Matches(msg, m.keys.NextPattern):
		m.StatusMsg = "Pattern: " + m.pad.CyclePattern(1).Label()
	case key.Matches(msg, m.keys.PrevPattern):
		m.StatusMsg = "Pattern: " + m.pad.CyclePattern(-1).Label()
	case key.Matches(msg, m.keys.NextBeat):
		m.StatusMsg = "Beat: " + m.pad.CycleBeat(1).String()

	case key.Matches(msg, m.keys.TempoDown):
		m.StatusMsg = fmt.Sprintf("Tempo: %d BPM", m.pad.NudgeTempo(-5))
	case key.Matches(msg, m.keys.TempoUp):
		m.StatusMsg = fmt.Sprintf("Tempo: %d BPM", m.pad.NudgeTempo(5))
	case key.Matches(msg, m.keys.TransposeDown):
		m.StatusMsg = fmt.Sprintf("Transpose: %+d", m.pad.NudgeTranspose(-1))
	case key.Matches(msg, m.keys.TransposeUp):
		m.StatusMsg = fmt.Sprintf("Transpose: %+d", m.pad.NudgeTranspose(1))

	default:
		return m.triggerChord(msg.String())
	}
	return m, nil
}

func (m Model) triggerChord(k string) (Model, tea.Cmd) {
	outcome, err := m.pad.Trigger(k)
	if err != nil {
		m.StatusMsg = err.Error()
		return m, nil
	}
	switch outcome {
	case pad.Wake:
		m.StatusMsg = "Loading sound..."
		if m.load != nil {
			return m, loadCmd(m.load)
		}
	case pad.Loading:
		m.StatusMsg = "Still loading sound..."
	case pad.Queued:
		m.StatusMsg = "Next: " + m.activeLabel()
	case pad.Started, pad.Played:
		m.StatusMsg = m.activeLabel()
	}
	return m, nil
}

func (m Model) activeLabel() string {
	v := m.pad.View()
	if v.Active == nil {
		return ""
	}
	return v.Active.Label
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.padView())
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n\n")
	b.WriteString(m.footerView())

	return b.String()
}

func (m Model) headerView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Render("CHORDPAD")

	st := m.snap.Status
	state := "STOPPED"
	switch {
	case st.State == arp.Playing:
		state = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Render("PLAYING")
	case m.snap.ArpOn:
		state = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Render("ARMED")
	}

	scale := ""
	if len(m.snap.Bindings) > 0 {
		scale = m.snap.Bindings[0].Label
	}
	info := fmt.Sprintf(" │ %s │ BPM:%d │ Tr:%+d │ %s │ %s │ %s",
		scale, st.Settings.Tempo, st.Settings.Transpose,
		st.Settings.Pattern.Label(), st.Settings.Beat, state)

	return title + info
}

func (m Model) padView() string {
	var cells []string
	for _, bnd := range m.snap.Bindings {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(10)
		if m.snap.Active != nil && m.snap.Active.Key == bnd.Key {
			style = style.
				BorderForeground(lipgloss.Color("10")).
				Foreground(lipgloss.Color("15")).
				Bold(true)
		}

		keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		degStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		cell := keyStyle.Render(strings.ToUpper(bnd.Key)) + " " + degStyle.Render(bnd.Degree) +
			"\n" + bnd.Label
		cells = append(cells, style.Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) statusView() string {
	st := m.snap.Status
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	var lines []string

	current := "-"
	if len(st.Current) > 0 {
		current = strings.Join(chord.Strings(st.Current), " ")
	}
	line := "Chord: " + current
	if len(st.Pending) > 0 {
		line += dim.Render(" → " + strings.Join(chord.Strings(st.Pending), " "))
	}
	if st.HasLast {
		line += " │ Note: " + st.Last.String()
	}
	if st.State == arp.Playing && st.Passes > 0 {
		line += dim.Render(" │ " + humanize.Ordinal(st.Passes) + " pass")
	}
	lines = append(lines, line)

	switch {
	case m.snap.Loading:
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("Loading sound..."))
	case m.snap.Err != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: "+m.snap.Err.Error()))
	case !m.snap.Ready:
		lines = append(lines, dim.Render("Press a chord key to start the sound"))
	}
	if m.StatusMsg != "" {
		lines = append(lines, m.StatusMsg)
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	return m.help.View(m.keys)
}
