package engine

// State is the session lifecycle state.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateOver
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name. Unknown names decode to StateOver.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = StatePlaying
	case "paused":
		*s = StatePaused
	default:
		*s = StateOver
	}
	return nil
}

// Event is an abstract input event polled once per tick.
type Event int

const (
	EventNone Event = iota
	EventLeft
	EventRight
	EventRotate
	EventSoftDrop
	EventHardDrop
	EventPause
	EventQuit
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventLeft:
		return "left"
	case EventRight:
		return "right"
	case EventRotate:
		return "rotate"
	case EventSoftDrop:
		return "soft_drop"
	case EventHardDrop:
		return "hard_drop"
	case EventPause:
		return "pause"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Drop bonuses.
const (
	SoftDropPoints = 1
	HardDropPoints = 2
)

// DefaultDropTable holds the gravity interval in ticks for levels 1..20.
var DefaultDropTable = []uint32{
	48, 43, 38, 33, 28,
	23, 18, 13, 8, 6,
	5, 5, 5, 4, 4,
	4, 3, 3, 3, 2,
}

// Options configures a new Session.
type Options struct {
	Width  int
	Height int
	Seed   uint32

	// DropTable overrides DefaultDropTable. Entry i is the interval for
	// level i+1; levels past the end use the last entry.
	DropTable []uint32

	Observer Observer
}

// Session owns one game: the grid, the active and look-ahead pieces and the
// randomizer. It is driven by Update once per tick and is not safe for
// concurrent use.
type Session struct {
	grid    Grid
	rng     Randomizer
	current Piece
	next    Piece

	state        State
	lastDrop     uint32
	dropInterval uint32
	dropTable    []uint32
	tick         uint32
	seed         uint32

	// version increments on every observable change.
	version  uint64
	observer Observer
}

// NewSession starts a game at the given tick. The bag is shuffled once and
// the first two draws become the active and look-ahead pieces.
func NewSession(opts Options, tick uint32) *Session {
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}

	s := &Session{
		dropTable: opts.DropTable,
		observer:  opts.Observer,
	}
	if len(s.dropTable) == 0 {
		s.dropTable = DefaultDropTable
	}
	if s.observer == nil {
		s.observer = NopObserver{}
	}

	s.rng.Seed(opts.Seed)
	s.seed = s.rng.state
	s.grid.Init(opts.Width, opts.Height)

	s.grid.Spawn(&s.current, s.rng.NextKind())
	s.grid.Spawn(&s.next, s.rng.NextKind())

	s.state = StatePlaying
	s.tick = tick
	s.lastDrop = tick
	s.dropInterval = s.intervalFor(s.grid.Level())

	s.observer.OnSpawn(s.current, s.next.Kind)
	return s
}

// DropInterval returns the gravity interval for level using table. Levels
// are clamped to [1, MaxLevel]; zero entries are treated as 1.
func DropInterval(table []uint32, level int) uint32 {
	if len(table) == 0 {
		table = DefaultDropTable
	}
	level = clamp(level, 1, MaxLevel)
	idx := level - 1
	if idx >= len(table) {
		idx = len(table) - 1
	}
	if table[idx] == 0 {
		return 1
	}
	return table[idx]
}

func (s *Session) intervalFor(level int) uint32 {
	return DropInterval(s.dropTable, level)
}

// Update advances the session by one tick, consuming at most one event.
//
// While playing, the event is applied first, then gravity moves the piece
// down once if at least the drop interval has elapsed since the last drop.
// Elapsed time uses unsigned subtraction so the tick counter may wrap.
// While paused only Pause (resume) and Quit are honored. Over is terminal.
func (s *Session) Update(tick uint32, ev Event) {
	if s.state == StateOver {
		return
	}
	s.tick = tick
	if ev != EventNone {
		s.observer.OnInput(tick, ev)
	}

	if s.state == StatePaused {
		switch ev {
		case EventPause:
			s.lastDrop = tick
			s.setState(StatePlaying)
		case EventQuit:
			s.setState(StateOver)
		}
		return
	}

	s.apply(tick, ev)

	if s.state != StatePlaying {
		return
	}

	if tick-s.lastDrop >= s.dropInterval {
		if s.grid.Move(&s.current, DirDown) {
			s.version++
		} else {
			s.Lock()
		}
		s.lastDrop = tick
	}
}

// apply interprets one input event in the playing state.
func (s *Session) apply(tick uint32, ev Event) {
	switch ev {
	case EventLeft:
		if s.grid.Move(&s.current, DirLeft) {
			s.version++
		}

	case EventRight:
		if s.grid.Move(&s.current, DirRight) {
			s.version++
		}

	case EventRotate:
		if s.grid.Rotate(&s.current, 1) {
			s.version++
		}

	case EventSoftDrop:
		if !s.grid.Move(&s.current, DirDown) {
			s.Lock()
		}
		s.grid.AddScore(SoftDropPoints)
		s.lastDrop = tick
		s.version++

	case EventHardDrop:
		dropped := s.grid.HardDrop(&s.current)
		s.grid.AddScore(dropped * HardDropPoints)
		s.Lock()
		s.lastDrop = tick

	case EventPause:
		s.setState(StatePaused)

	case EventQuit:
		s.setState(StateOver)
	}
}

// Lock commits the active piece, clears full rows, promotes the look-ahead
// piece and draws a new one. If the new active piece collides on spawn the
// session is over.
func (s *Session) Lock() {
	if s.state == StateOver {
		return
	}

	locked := s.current
	s.grid.Add(&s.current)
	s.observer.OnLock(locked)

	levelBefore := s.grid.Level()
	if cleared := s.grid.ClearLines(); cleared > 0 {
		s.dropInterval = s.intervalFor(s.grid.Level())
		s.observer.OnClear(cleared, s.grid.Score())
		if s.grid.Level() != levelBefore {
			s.observer.OnLevel(s.grid.Level(), s.dropInterval)
		}
	}

	s.current = s.next
	s.grid.Spawn(&s.current, s.current.Kind)
	s.grid.Spawn(&s.next, s.rng.NextKind())
	s.version++
	s.observer.OnSpawn(s.current, s.next.Kind)

	if s.grid.Collides(&s.current) {
		s.setState(StateOver)
	}
}

func (s *Session) setState(to State) {
	if s.state == to {
		return
	}
	from := s.state
	s.state = to
	s.version++
	s.observer.OnStateChange(from, to)
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Current returns a copy of the active piece.
func (s *Session) Current() Piece { return s.current }

// Next returns a copy of the look-ahead piece.
func (s *Session) Next() Piece { return s.next }

// Score returns the current score.
func (s *Session) Score() int { return s.grid.Score() }

// Lines returns the total number of cleared rows.
func (s *Session) Lines() int { return s.grid.LinesCleared() }

// Level returns the current level.
func (s *Session) Level() int { return s.grid.Level() }

// Interval returns the current gravity interval in ticks.
func (s *Session) Interval() uint32 { return s.dropInterval }

// Seed returns the effective seed the session was started with.
func (s *Session) Seed() uint32 { return s.seed }

// Tick returns the last tick passed to Update.
func (s *Session) Tick() uint32 { return s.tick }

// Version returns a counter that changes whenever observable state changes.
func (s *Session) Version() uint64 { return s.version }

// Width returns the grid width.
func (s *Session) Width() int { return s.grid.Width() }

// Height returns the grid height.
func (s *Session) Height() int { return s.grid.Height() }

// GhostY returns the resting row of the active piece.
func (s *Session) GhostY() int { return s.grid.GhostY(s.current) }

// CellColor returns the locked color at (x, y), or ColorBlack if empty.
func (s *Session) CellColor(x, y int) Color { return s.grid.CellColor(x, y) }

// IsOccupied reports whether (x, y) holds a locked cell or lies outside the
// well.
func (s *Session) IsOccupied(x, y int) bool { return s.grid.IsOccupied(x, y) }
