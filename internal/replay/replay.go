// Package replay records the inputs of a session and re-simulates them.
//
// A session is fully determined by its seed, its well size, its drop table
// and the events fed to Update on each tick, so a log stores only those and
// the digest of the final state.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// FormatVersion is bumped whenever the log layout changes.
const FormatVersion = 1

// ErrMismatch is returned by Verify when a re-simulation does not reproduce
// the recorded result.
var ErrMismatch = errors.New("replay: final state mismatch")

// Input is one non-None event and the tick it was applied on, counted from
// the session start.
type Input struct {
	Tick  uint32       `json:"t"`
	Event engine.Event `json:"e"`
}

// Result summarizes the final state of a session.
type Result struct {
	Score  int          `json:"score"`
	Lines  int          `json:"lines"`
	Level  int          `json:"level"`
	State  engine.State `json:"state"`
	Digest uint64       `json:"digest"`
}

// Log is everything needed to replay one session.
type Log struct {
	Version    int       `json:"version"`
	RecordedAt time.Time `json:"recorded_at"`

	Seed      uint32   `json:"seed"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	DropTable []uint32 `json:"drop_table,omitempty"`

	// Ticks is the number of Update calls the session received.
	Ticks  uint32  `json:"ticks"`
	Inputs []Input `json:"inputs"`
	Result Result  `json:"result"`
}

// Options returns session options that reproduce the recorded game.
func (l Log) Options() engine.Options {
	return engine.Options{
		Width:     l.Width,
		Height:    l.Height,
		Seed:      l.Seed,
		DropTable: l.DropTable,
	}
}

// Recorder captures the inputs of a session. Install it as the session's
// observer (or part of a MultiObserver) before the first Update.
type Recorder struct {
	engine.NopObserver

	opts   engine.Options
	start  uint32
	inputs []Input
}

// NewRecorder starts a recording for a session created with opts at tick
// start.
func NewRecorder(opts engine.Options, start uint32) *Recorder {
	table := make([]uint32, len(opts.DropTable))
	copy(table, opts.DropTable)
	opts.DropTable = table
	opts.Observer = nil

	return &Recorder{opts: opts, start: start}
}

// OnInput records a non-None event.
func (r *Recorder) OnInput(tick uint32, ev engine.Event) {
	r.inputs = append(r.inputs, Input{Tick: tick - r.start, Event: ev})
}

// Len returns the number of recorded inputs.
func (r *Recorder) Len() int {
	return len(r.inputs)
}

// Finish closes the recording against the session's current state.
func (r *Recorder) Finish(s *engine.Session) Log {
	inputs := make([]Input, len(r.inputs))
	copy(inputs, r.inputs)

	return Log{
		Version:    FormatVersion,
		RecordedAt: time.Now().UTC(),
		Seed:       s.Seed(),
		Width:      s.Width(),
		Height:     s.Height(),
		DropTable:  r.opts.DropTable,
		Ticks:      s.Tick() - r.start,
		Inputs:     inputs,
		Result:     resultOf(s),
	}
}

func resultOf(s *engine.Session) Result {
	snap := s.Snapshot()
	return Result{
		Score:  snap.Score,
		Lines:  snap.Lines,
		Level:  snap.Level,
		State:  snap.State,
		Digest: snap.Digest(),
	}
}

// Simulate replays the log on a fresh session. observer may be nil.
func Simulate(l Log, observer engine.Observer) (*engine.Session, error) {
	if l.Version != FormatVersion {
		return nil, fmt.Errorf("replay: unsupported format version %d", l.Version)
	}

	opts := l.Options()
	opts.Observer = observer
	s := engine.NewSession(opts, 0)

	next := 0
	for tick := uint32(1); tick <= l.Ticks; tick++ {
		ev := engine.EventNone
		if next < len(l.Inputs) && l.Inputs[next].Tick == tick {
			ev = l.Inputs[next].Event
			next++
		}
		s.Update(tick, ev)
	}
	if next != len(l.Inputs) {
		return s, fmt.Errorf("replay: %d inputs outside the recorded %d ticks", len(l.Inputs)-next, l.Ticks)
	}
	return s, nil
}

// Verify re-simulates the log and compares the outcome with the recorded
// result.
func Verify(l Log) (Result, error) {
	s, err := Simulate(l, nil)
	if err != nil {
		return Result{}, err
	}
	got := resultOf(s)
	if got != l.Result {
		return got, fmt.Errorf("%w: recorded digest %016x score %d, replayed digest %016x score %d",
			ErrMismatch, l.Result.Digest, l.Result.Score, got.Digest, got.Score)
	}
	return got, nil
}
