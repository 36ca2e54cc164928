// Package tetris adapts the falling-block engine to the platform's Game
// interface: it turns input frames into engine events, keeps the tick
// counter, feeds replay and spectator sinks and draws the well.
package tetris

import (
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

// ID is the registry identifier of the game.
const ID = "tetris"

// eventOrder decides which action wins when several keys arrive in one tick.
// The engine consumes at most one event per tick.
var eventOrder = []core.Action{
	core.ActionQuit,
	core.ActionPause,
	core.ActionHardDrop,
	core.ActionSoftDrop,
	core.ActionRotate,
	core.ActionLeft,
	core.ActionRight,
}

// Game implements registry.Game on top of an engine.Session.
type Game struct {
	settings registry.Settings
	opts     engine.Options

	session  *engine.Session
	recorder *replay.Recorder
	tick     uint32

	screenW int
	screenH int
}

// New creates a game. Zero settings fall back to the built-in configuration.
func New(s registry.Settings) *Game {
	if s.Config.Grid.Width == 0 || s.Config.Grid.Height == 0 {
		s.Config = config.DefaultTetrisConfig()
	}
	return &Game{settings: s}
}

func init() {
	registry.Register(ID, func(s registry.Settings) registry.Game {
		return New(s)
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset starts a new session seeded from cfg.Seed. A zero seed selects the
// engine's default seed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.opts = engine.Options{
		Width:     g.settings.Config.Grid.Width,
		Height:    g.settings.Config.Grid.Height,
		Seed:      cfg.Seed,
		DropTable: g.settings.Config.EffectiveDropTable(),
	}

	var observers engine.MultiObserver
	if g.settings.Observer != nil {
		observers = append(observers, g.settings.Observer)
	}
	g.recorder = nil
	if g.settings.Record {
		g.recorder = replay.NewRecorder(g.opts, 0)
		observers = append(observers, g.recorder)
	}

	opts := g.opts
	if len(observers) > 0 {
		opts.Observer = observers
	}

	g.tick = 0
	g.session = engine.NewSession(opts, g.tick)
	g.publish()
}

// Step advances the session by one tick using the highest priority action
// in the frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	return g.Apply(EventFor(in))
}

// Apply advances the session by one tick with an explicit engine event.
func (g *Game) Apply(ev engine.Event) core.StepResult {
	if g.session == nil {
		g.Reset(core.DefaultConfig())
	}

	before := g.session.Version()
	g.tick++
	g.session.Update(g.tick, ev)

	changed := g.session.Version() != before
	if changed {
		g.publish()
	}
	return core.StepResult{State: g.State(), Changed: changed}
}

// EventFor maps an input frame to the single engine event it triggers.
func EventFor(in core.InputFrame) engine.Event {
	switch in.First(eventOrder...) {
	case core.ActionQuit:
		return engine.EventQuit
	case core.ActionPause:
		return engine.EventPause
	case core.ActionHardDrop:
		return engine.EventHardDrop
	case core.ActionSoftDrop:
		return engine.EventSoftDrop
	case core.ActionRotate:
		return engine.EventRotate
	case core.ActionLeft:
		return engine.EventLeft
	case core.ActionRight:
		return engine.EventRight
	default:
		return engine.EventNone
	}
}

func (g *Game) publish() {
	if g.settings.Publisher != nil {
		g.settings.Publisher.Publish(g.session.Snapshot())
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Level: 1}
	}
	st := g.session.State()
	return core.GameState{
		Score:    g.session.Score(),
		Lines:    g.session.Lines(),
		Level:    g.session.Level(),
		GameOver: st == engine.StateOver,
		Paused:   st == engine.StatePaused,
	}
}

// Snapshot returns a copy of the session state.
func (g *Game) Snapshot() engine.Snapshot {
	if g.session == nil {
		g.Reset(core.DefaultConfig())
	}
	return g.session.Snapshot()
}

// Seed returns the effective seed of the running session.
func (g *Game) Seed() uint32 {
	if g.session == nil {
		return 0
	}
	return g.session.Seed()
}

// ReplayLog returns the recording of a finished game. It reports false while
// the game is still running or when recording is disabled.
func (g *Game) ReplayLog() (replay.Log, bool) {
	if g.recorder == nil || g.session == nil || g.session.State() != engine.StateOver {
		return replay.Log{}, false
	}
	return g.recorder.Finish(g.session), true
}
