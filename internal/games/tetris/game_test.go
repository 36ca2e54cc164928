package tetris

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

type countingPublisher struct {
	snaps []engine.Snapshot
}

func (p *countingPublisher) Publish(s engine.Snapshot) {
	p.snaps = append(p.snaps, s)
}

func newGame(t *testing.T, s registry.Settings, seed uint32) *Game {
	t.Helper()
	g := New(s)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Fatalf("game %q not registered", ID)
	}
	g, err := registry.Create(ID, registry.Settings{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.Title() != "Tetris" {
		t.Errorf("Title() = %q, expected Tetris", g.Title())
	}
}

func TestEventFor(t *testing.T) {
	tests := []struct {
		name    string
		actions []core.Action
		want    engine.Event
	}{
		{"empty", nil, engine.EventNone},
		{"left", []core.Action{core.ActionLeft}, engine.EventLeft},
		{"right", []core.Action{core.ActionRight}, engine.EventRight},
		{"rotate", []core.Action{core.ActionRotate}, engine.EventRotate},
		{"soft drop", []core.Action{core.ActionSoftDrop}, engine.EventSoftDrop},
		{"hard drop", []core.Action{core.ActionHardDrop}, engine.EventHardDrop},
		{"pause", []core.Action{core.ActionPause}, engine.EventPause},
		{"quit", []core.Action{core.ActionQuit}, engine.EventQuit},
		{"quit wins", []core.Action{core.ActionLeft, core.ActionQuit, core.ActionHardDrop}, engine.EventQuit},
		{"drop beats move", []core.Action{core.ActionRight, core.ActionHardDrop}, engine.EventHardDrop},
		{"platform only", []core.Action{core.ActionRestart, core.ActionConfirm}, engine.EventNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventFor(frame(tt.actions...)); got != tt.want {
				t.Errorf("EventFor() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestStepRunsGravity(t *testing.T) {
	g := newGame(t, registry.Settings{}, 1)
	y := g.Snapshot().Current.Y

	for i := 0; i < 47; i++ {
		if res := g.Step(frame()); res.Changed {
			t.Fatalf("tick %d changed the game before the drop interval", i+1)
		}
	}
	res := g.Step(frame())
	if !res.Changed {
		t.Error("gravity tick reported no change")
	}
	if got := g.Snapshot().Current.Y; got != y-1 {
		t.Errorf("Current.Y = %d, expected %d", got, y-1)
	}
}

func TestResetReseeds(t *testing.T) {
	g := New(registry.Settings{})
	g.Reset(core.RuntimeConfig{Seed: 1})
	g.Step(frame(core.ActionHardDrop))
	g.Reset(core.RuntimeConfig{Seed: 2})
	b := g.Snapshot()

	if g.Seed() != 2 {
		t.Errorf("Seed() = %d, expected 2", g.Seed())
	}
	want := engine.NewSession(engine.Options{Seed: 2}, 0)
	if b.Current.Kind != want.Current().Kind || b.Next != want.Next().Kind {
		t.Errorf("opening pieces = %s/%s, expected %s/%s",
			b.Current.Kind, b.Next, want.Current().Kind, want.Next().Kind)
	}
	if b.Tick != 0 || b.Score != 0 {
		t.Errorf("Reset did not start a fresh session: %+v", b)
	}
}

func TestStateReportsPauseAndOver(t *testing.T) {
	g := newGame(t, registry.Settings{}, 3)

	st := g.Step(frame(core.ActionPause)).State
	if !st.Paused || st.GameOver {
		t.Errorf("after pause state = %+v", st)
	}
	if st.Level != 1 {
		t.Errorf("Level = %d, expected 1", st.Level)
	}

	st = g.Step(frame(core.ActionQuit)).State
	if st.Paused || !st.GameOver {
		t.Errorf("after quit state = %+v", st)
	}
}

func TestPublisherSeesChanges(t *testing.T) {
	pub := &countingPublisher{}
	g := newGame(t, registry.Settings{Publisher: pub}, 5)

	if len(pub.snaps) != 1 {
		t.Fatalf("published %d snapshots on reset, expected 1", len(pub.snaps))
	}

	g.Step(frame())
	if len(pub.snaps) != 1 {
		t.Errorf("idle tick published a snapshot")
	}

	g.Step(frame(core.ActionLeft))
	if len(pub.snaps) != 2 {
		t.Fatalf("published %d snapshots, expected 2", len(pub.snaps))
	}
	if last := pub.snaps[1]; last.Tick != 2 {
		t.Errorf("snapshot tick = %d, expected 2", last.Tick)
	}
}

func TestReplayLogVerifies(t *testing.T) {
	g := newGame(t, registry.Settings{Record: true}, 11)

	g.Step(frame(core.ActionLeft))
	g.Step(frame())
	g.Step(frame(core.ActionRotate))
	if _, ok := g.ReplayLog(); ok {
		t.Fatal("ReplayLog() available before game over")
	}

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		g.Step(frame(core.ActionHardDrop))
	}
	if !g.State().GameOver {
		t.Fatal("game did not top out")
	}

	log, ok := g.ReplayLog()
	if !ok {
		t.Fatal("ReplayLog() not available after game over")
	}
	if log.Seed != 11 {
		t.Errorf("log seed = %d, expected 11", log.Seed)
	}
	res, err := replay.Verify(log)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if res.Score != g.State().Score {
		t.Errorf("replayed score = %d, expected %d", res.Score, g.State().Score)
	}
}

func TestReplayLogDisabled(t *testing.T) {
	g := newGame(t, registry.Settings{}, 4)
	g.Step(frame(core.ActionQuit))
	if _, ok := g.ReplayLog(); ok {
		t.Error("ReplayLog() available with recording disabled")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, registry.Settings{}, 1)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"TETRIS", "NEXT", "Score 0", "Lines 0", "Level 1", "██"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "PAUSED") {
		t.Error("render shows pause overlay while playing")
	}

	g.Step(frame(core.ActionPause))
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("render missing pause overlay")
	}

	g.Step(frame(core.ActionQuit))
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("render missing game over overlay")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t, registry.Settings{}, 1)
	screen := core.NewScreen(20, 10)

	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected too-small message")
	}
}

func TestScreenColor(t *testing.T) {
	if ScreenColor(engine.ColorPurple) != core.ColorMagenta {
		t.Errorf("ScreenColor(purple) = %v", ScreenColor(engine.ColorPurple))
	}
	if ScreenColor(engine.Color(200)) != core.ColorDefault {
		t.Error("unknown palette index should map to default")
	}
}
