// Package tui is the interactive terminal front end: a command prompt with
// line recall, a scrolling transcript and a live drawing of the graph.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/kilupskalvis/gitsim/internal/render"
	"github.com/kilupskalvis/gitsim/internal/shell"
)

// recallSize bounds the in-memory recall ring
const recallSize = 100

// HistoryStore persists submitted lines across runs.
type HistoryStore interface {
	AppendCommand(command string) (*models.HistoryEntry, error)
	RecentCommands(n int) ([]*models.HistoryEntry, error)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginRight(2)

	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	graphStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

type Model struct {
	sess    *core.Session
	history HistoryStore
	recall  *Recall

	input   textinput.Model
	log     viewport.Model
	entries []string

	width  int
	height int
	err    error // last history store failure, shown in the footer
}

// NewModel creates the TUI for sess. history may be nil; when set, its recent
// lines seed the recall ring and every submitted line is appended to it.
func NewModel(sess *core.Session, history HistoryStore) Model {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "git init"
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	m := Model{
		sess:    sess,
		history: history,
		recall:  NewRecall(recallSize),
		input:   ti,
		log:     viewport.New(80, 10),
	}

	if history != nil {
		entries, err := history.RecentCommands(recallSize)
		if err != nil {
			m.err = err
		}
		for _, e := range entries {
			m.recall.Push(e.Command)
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.submit(m.input.Value())
			return m, nil
		case "up":
			m.input.SetValue(m.recall.Prev())
			m.input.CursorEnd()
			return m, nil
		case "down":
			m.input.SetValue(m.recall.Next())
			m.input.CursorEnd()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs one line and appends it with its result to the transcript.
func (m *Model) submit(line string) {
	line = strings.TrimSpace(line)
	m.input.Reset()
	if line == "" {
		return
	}

	m.recall.Push(line)
	if m.history != nil {
		if _, err := m.history.AppendCommand(line); err != nil {
			m.err = err
		}
	}

	res := shell.Execute(m.sess, line)
	if res.ClearLog {
		m.entries = nil
	} else {
		m.entries = append(m.entries, formatEntry(line, res))
	}

	m.log.SetContent(strings.Join(m.entries, "\n"))
	m.log.GotoBottom()
	m.resize()
}

func formatEntry(line string, res shell.Result) string {
	entry := promptStyle.Render("$ ") + line
	text := res.Text()
	if text == "" {
		return entry
	}
	if res.Err != nil {
		text = errorStyle.Render(text)
	}
	return entry + "\n" + text
}

// resize gives the transcript whatever height the graph leaves over.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderGraph()) + lipgloss.Height(m.renderFooter()) + 1
	m.log.Width = m.width
	m.log.Height = max(m.height-used, 3)
	m.input.Width = max(m.width-4, 10)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderGraph(),
		m.log.View(),
		m.input.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("gitsim")
	current := "(no repository)"
	if b := m.sess.CurrentBranch(); b != nil {
		current = b.Name
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, title, branchStyle.Render(current))
	divider := dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Left, headerLine, divider)
}

func (m Model) renderGraph() string {
	if !m.sess.Initialized() {
		return graphStyle.Render(helpStyle.Render("not a repository yet, type 'git init'"))
	}
	canvas := render.Text(m.sess.Snapshot(), render.DefaultCanvasOptions())
	return graphStyle.Render(canvas.Colored())
}

func (m Model) renderFooter() string {
	keys := []string{
		"enter: run",
		"↑/↓: recall",
		"help: commands",
		"esc: quit",
	}
	footer := helpStyle.Render(strings.Join(keys, " • "))
	if m.err != nil {
		footer += "  " + errorStyle.Render("history: "+m.err.Error())
	}
	return footer
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(sess *core.Session, history HistoryStore) error {
	p := tea.NewProgram(NewModel(sess, history), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
