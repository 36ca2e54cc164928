package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

const maxReplays = 100

// ReplayLibrary is the part of the replay store the browser needs.
type ReplayLibrary interface {
	Replays(limit int) ([]storage.ReplayEntry, error)
	Replay(id int64) (replay.Log, error)
	DeleteReplay(id int64) error
}

// ReplaysKeyMap defines the key bindings for the replay browser.
type ReplaysKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Verify key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Verify, k.Delete, k.Reload, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("v", "enter"),
			key.WithHelp("v", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplaysModel is the Bubble Tea model for browsing recorded games.
type ReplaysModel struct {
	lib      ReplayLibrary
	entries  []storage.ReplayEntry
	table    table.Model
	help     help.Model
	keys     ReplaysKeyMap
	width    int
	height   int
	status   string
	quitting bool
}

// NewReplaysModel creates a replay browser over lib.
func NewReplaysModel(lib ReplayLibrary, width, height int) ReplaysModel {
	m := ReplaysModel{
		lib:    lib,
		keys:   DefaultReplaysKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 14},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Lv", Width: 3},
		{Title: "Seed", Width: 10},
		{Title: "Ticks", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load refreshes the entries from the library.
func (m *ReplaysModel) load() {
	entries, err := m.lib.Replays(maxReplays)
	if err != nil {
		m.entries = nil
		m.status = fmt.Sprintf("cannot load replays: %v", err)
	} else {
		m.entries = entries
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Format("Jan 02 15:04"),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Lines),
			strconv.Itoa(e.Level),
			strconv.FormatUint(uint64(e.Seed), 10),
			strconv.FormatUint(uint64(e.Ticks), 10),
		}
	}
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
}

// selected returns the entry under the cursor.
func (m ReplaysModel) selected() (storage.ReplayEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return storage.ReplayEntry{}, false
	}
	return m.entries[i], true
}

// Init initializes the replay browser.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the replay browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Verify):
			m.verifySelected()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.status = ""
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ReplaysModel) verifySelected() {
	e, ok := m.selected()
	if !ok {
		return
	}
	l, err := m.lib.Replay(e.ID)
	if err != nil {
		m.status = fmt.Sprintf("#%d: %v", e.ID, err)
		return
	}
	res, err := replay.Verify(l)
	switch {
	case errors.Is(err, replay.ErrMismatch):
		m.status = fmt.Sprintf("#%d: MISMATCH (replayed score %d)", e.ID, res.Score)
	case err != nil:
		m.status = fmt.Sprintf("#%d: %v", e.ID, err)
	default:
		m.status = fmt.Sprintf("#%d: ok, digest %016x", e.ID, res.Digest)
	}
}

func (m *ReplaysModel) deleteSelected() {
	e, ok := m.selected()
	if !ok {
		return
	}
	if err := m.lib.DeleteReplay(e.ID); err != nil {
		m.status = fmt.Sprintf("#%d: %v", e.ID, err)
		return
	}
	m.load()
	m.status = fmt.Sprintf("#%d deleted", e.ID)
}

// View renders the replay browser.
func (m ReplaysModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("REPLAYS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := m.table.View()
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		content = emptyStyle.Render("No replays recorded yet.\nFinish a game to record one!")
	}
	b.WriteString(tableStyle.Render(content))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Status returns the last action's status line.
func (m ReplaysModel) Status() string {
	return m.status
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// RunReplays runs the replay browser.
func RunReplays(lib ReplayLibrary, width, height int) error {
	p := tea.NewProgram(
		NewReplaysModel(lib, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
