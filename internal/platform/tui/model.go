package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/input"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

// ReplayStore persists finished games.
type ReplayStore interface {
	SaveReplay(l replay.Log) (int64, error)
}

// Recorded is implemented by games that can hand out a replay once over.
type Recorded interface {
	ReplayLog() (replay.Log, bool)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      ReplayStore
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState

	// spin advances every tick and mixes with the restart key for the next
	// seed, the same way the stream console seeds from a keypress.
	spin uint32

	quitting    bool
	replaySaved bool // Whether the replay has been handled for the current game over
	status      string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// NewModel creates a new Bubble Tea model for the given game. store may be
// nil to disable replay saving.
func NewModel(game registry.Game, store ReplayStore, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	spin := uint32(time.Now().UnixNano())
	if cfg.Seed == 0 {
		cfg.Seed = input.SeedFromKey(spin, 0)
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playHeight(cfg.ScreenH)),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		spin:       spin,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Width = cfg.ScreenW
	return m
}

// playHeight leaves the last row for the help footer.
func playHeight(h int) int {
	return max(h-1, 0)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// A second quit after the game ended leaves the program.
	action, exit := m.keys.MapKey(msg)
	if exit || (action == core.ActionQuit && m.gameState.GameOver) {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events. The well has a fixed size,
// so the game keeps running and only the screen buffer changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.spin = input.Spin(m.spin)

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = input.SeedFromKey(m.spin, 'r')
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.replaySaved = false
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.replaySaved {
		m.saveReplay()
		m.replaySaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveReplay stores the finished game. Failures are logged and never stop
// the program.
func (m *Model) saveReplay() {
	if m.store == nil {
		return
	}
	rec, ok := m.game.(Recorded)
	if !ok {
		return
	}
	l, ok := rec.ReplayLog()
	if !ok {
		return
	}
	id, err := m.store.SaveReplay(l)
	if err != nil {
		m.logger.Warn("could not save replay", "error", err)
		m.status = "replay not saved"
		return
	}
	m.status = fmt.Sprintf("replay #%d saved", id)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	base, err := config.DataDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(base, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.status = "screenshot saved"
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status + "  " + footer
	}
	return RenderScreen(m.screen) + "\n" + colorStyles[core.ColorDim].Render(footer)
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Status returns the footer status message.
func (m Model) Status() string {
	return m.status
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store ReplayStore, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
