package engine

import (
	"fmt"
	"hash/fnv"
)

// Snapshot is a read-only copy of a session for rendering and telemetry.
// It shares no memory with the session.
type Snapshot struct {
	Tick         uint32    `json:"tick"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Rows         []Row     `json:"rows"`
	Colors       [][]Color `json:"colors"`
	Current      Piece     `json:"current"`
	GhostY       int       `json:"ghost_y"`
	Next         Kind      `json:"next"`
	Score        int       `json:"score"`
	Lines        int       `json:"lines"`
	Level        int       `json:"level"`
	DropInterval uint32    `json:"drop_interval"`
	State        State     `json:"state"`
}

// Snapshot copies the observable session state.
func (s *Session) Snapshot() Snapshot {
	h, w := s.grid.Height(), s.grid.Width()
	snap := Snapshot{
		Tick:         s.tick,
		Width:        w,
		Height:       h,
		Rows:         make([]Row, h),
		Colors:       make([][]Color, h),
		Current:      s.current,
		GhostY:       s.GhostY(),
		Next:         s.next.Kind,
		Score:        s.grid.Score(),
		Lines:        s.grid.LinesCleared(),
		Level:        s.grid.Level(),
		DropInterval: s.dropInterval,
		State:        s.state,
	}
	for y := 0; y < h; y++ {
		snap.Rows[y] = s.grid.rows[y]
		snap.Colors[y] = make([]Color, w)
		copy(snap.Colors[y], s.grid.colors[y][:w])
	}
	return snap
}

// Occupied reports whether (x, y) is filled in the snapshot. Out-of-range
// cells report false; this is a view, not a collision query.
func (s Snapshot) Occupied(x, y int) bool {
	if y < 0 || y >= len(s.Rows) || x < 0 || x >= s.Width {
		return false
	}
	return s.Rows[y]&(1<<uint(x)) != 0
}

// Digest returns a hash of the locked cells, counters and state. Two runs
// with the same seed and inputs produce the same digest.
func (s Snapshot) Digest() uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "G:%dx%d;", s.Width, s.Height)
	for y, row := range s.Rows {
		fmt.Fprintf(h, "R%d:%d:", y, row)
		for x := 0; x < s.Width && x < len(s.Colors[y]); x++ {
			if row&(1<<uint(x)) != 0 {
				fmt.Fprintf(h, "%d,", s.Colors[y][x])
			}
		}
	}

	fmt.Fprintf(h, ";P:%d:%d:%d:%d", s.Current.Kind, s.Current.Rotation, s.Current.X, s.Current.Y)
	fmt.Fprintf(h, ";N:%d", s.Next)
	fmt.Fprintf(h, ";S:%d:%d:%d", s.Score, s.Lines, s.Level)
	fmt.Fprintf(h, ";T:%s", s.State)

	return h.Sum64()
}
