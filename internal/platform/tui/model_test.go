package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

type memStore struct {
	logs []replay.Log
	err  error
}

func (s *memStore) SaveReplay(l replay.Log) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.logs = append(s.logs, l)
	return int64(len(s.logs)), nil
}

func newTestModel(t *testing.T, store ReplayStore) (Model, *tetris.Game) {
	t.Helper()
	g := tetris.New(registry.Settings{Record: true})
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60, Seed: 7})
	m.Init()
	return m, g
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModelSavesReplayOnce(t *testing.T) {
	store := &memStore{}
	m, _ := newTestModel(t, store)

	m, _ = send(t, m, runeKey('q'))
	m, _ = send(t, m, TickMsg{})
	if !m.State().GameOver {
		t.Fatal("q did not end the game")
	}
	if len(store.logs) != 1 {
		t.Fatalf("saved %d replays, expected 1", len(store.logs))
	}
	if store.logs[0].Seed != 7 {
		t.Errorf("replay seed = %d, expected 7", store.logs[0].Seed)
	}
	if m.Status() != "replay #1 saved" {
		t.Errorf("Status() = %q", m.Status())
	}

	m, _ = send(t, m, TickMsg{})
	if len(store.logs) != 1 {
		t.Errorf("replay saved again on a later tick")
	}
}

func TestModelSaveFailureIsNotFatal(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	m, _ := newTestModel(t, store)

	m, _ = send(t, m, runeKey('q'))
	m, cmd := send(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick loop stopped after a failed save")
	}
	if m.Status() != "replay not saved" {
		t.Errorf("Status() = %q", m.Status())
	}
}

func TestModelRestartReseeds(t *testing.T) {
	m, g := newTestModel(t, nil)

	m, _ = send(t, m, runeKey('q'))
	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, runeKey('r'))
	m, _ = send(t, m, TickMsg{})

	if m.State().GameOver {
		t.Fatal("restart did not start a new game")
	}
	if g.Seed() == 7 {
		t.Error("restart kept the old seed")
	}
}

func TestModelRestartIgnoredWhilePlaying(t *testing.T) {
	m, g := newTestModel(t, nil)

	m, _ = send(t, m, runeKey('r'))
	m, _ = send(t, m, TickMsg{})
	if g.Seed() != 7 {
		t.Errorf("Seed() = %d, restart should only apply after game over", g.Seed())
	}
	if m.State().GameOver {
		t.Error("game ended unexpectedly")
	}
}

func TestModelExit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
	if m.View() != "" {
		t.Error("View() after quitting should be empty")
	}
}

func TestModelSecondQuitExits(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = send(t, m, runeKey('q'))
	m, _ = send(t, m, TickMsg{})
	_, cmd := send(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("second q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("second q did not quit")
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = send(t, m, TickMsg{})

	out := m.View()
	for _, want := range []string{"TETRIS", "NEXT", "Score"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d after resize, expected 100x29", m.screen.Width(), m.screen.Height())
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawTextColor(2, 0, "cd", core.ColorCyan)
	s.DrawText(0, 1, "xyz")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen produced %d lines, expected 2", len(lines))
	}
	for _, want := range []string{"ab", "cd", "xyz"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen missing %q", want)
		}
	}
}
