package engine

import (
	"github.com/charmbracelet/log"
)

// Observer receives side-channel notifications from a Session. Callbacks run
// synchronously inside Update and must not call back into the session.
type Observer interface {
	// OnInput is called for every non-None event handed to Update while the
	// session is not over, before it is interpreted.
	OnInput(tick uint32, ev Event)
	// OnSpawn is called when a new active piece enters the well.
	OnSpawn(active Piece, next Kind)
	// OnLock is called when the active piece is committed to the grid.
	OnLock(p Piece)
	// OnClear is called after rows were removed.
	OnClear(rows, score int)
	// OnLevel is called when the level changes.
	OnLevel(level int, dropInterval uint32)
	// OnStateChange is called on every session state transition.
	OnStateChange(from, to State)
}

// NopObserver implements Observer with no-op methods. Embed it to
// implement only the callbacks you need.
type NopObserver struct{}

func (NopObserver) OnInput(uint32, Event)      {}
func (NopObserver) OnSpawn(Piece, Kind)        {}
func (NopObserver) OnLock(Piece)               {}
func (NopObserver) OnClear(int, int)           {}
func (NopObserver) OnLevel(int, uint32)        {}
func (NopObserver) OnStateChange(State, State) {}

// MultiObserver fans notifications out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnInput(tick uint32, ev Event) {
	for _, o := range m {
		o.OnInput(tick, ev)
	}
}

func (m MultiObserver) OnSpawn(active Piece, next Kind) {
	for _, o := range m {
		o.OnSpawn(active, next)
	}
}

func (m MultiObserver) OnLock(p Piece) {
	for _, o := range m {
		o.OnLock(p)
	}
}

func (m MultiObserver) OnClear(rows, score int) {
	for _, o := range m {
		o.OnClear(rows, score)
	}
}

func (m MultiObserver) OnLevel(level int, dropInterval uint32) {
	for _, o := range m {
		o.OnLevel(level, dropInterval)
	}
}

func (m MultiObserver) OnStateChange(from, to State) {
	for _, o := range m {
		o.OnStateChange(from, to)
	}
}

// LogObserver writes diagnostic traces to a charmbracelet logger at debug
// level. It is the verbose variant of the play loop.
type LogObserver struct {
	Logger *log.Logger
}

// NewLogObserver returns a LogObserver writing to logger.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) OnInput(tick uint32, ev Event) {
	o.Logger.Debug("input", "tick", tick, "event", ev)
}

func (o *LogObserver) OnSpawn(active Piece, next Kind) {
	o.Logger.Debug("spawn", "kind", active.Kind, "x", active.X, "y", active.Y, "next", next)
}

func (o *LogObserver) OnLock(p Piece) {
	o.Logger.Debug("lock", "kind", p.Kind, "x", p.X, "y", p.Y, "rotation", p.Rotation)
}

func (o *LogObserver) OnClear(rows, score int) {
	o.Logger.Debug("clear", "rows", rows, "score", score)
}

func (o *LogObserver) OnLevel(level int, dropInterval uint32) {
	o.Logger.Info("level up", "level", level, "drop_interval", dropInterval)
}

func (o *LogObserver) OnStateChange(from, to State) {
	o.Logger.Info("state", "from", from, "to", to)
}

var (
	_ Observer = NopObserver{}
	_ Observer = MultiObserver(nil)
	_ Observer = (*LogObserver)(nil)
)
