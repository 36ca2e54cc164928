// Package console plays the game over a plain byte stream, the way a serial
// terminal would: keys in, status lines and an ASCII well out. Every line
// ends in CRLF so it renders correctly on a terminal in raw mode.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/input"
)

// ctrlC arrives as a plain byte in raw mode.
const ctrlC = 0x03

// Console drives one game from a byte stream.
type Console struct {
	out      io.Writer
	game     *tetris.Game
	dec      *input.Decoder
	showWell bool

	last    core.GameState
	printed bool
	done    bool
	err     error
}

// New creates a console writing to out. showWell prints the well after every
// visible change.
func New(out io.Writer, game *tetris.Game, showWell bool) *Console {
	return &Console{
		out:      out,
		game:     game,
		dec:      input.NewDecoder(),
		showWell: showWell,
	}
}

// Banner prints the title and the start prompt.
func (c *Console) Banner() {
	c.print("\r\n=== TETRIS ===\r\n")
	c.print("Press any key to start...\r\n")
}

// Start begins a game with seed.
func (c *Console) Start(seed uint32) {
	c.game.Reset(core.RuntimeConfig{Seed: seed})
	c.dec.Reset()
	c.done = false
	c.printed = false

	st := c.game.State()
	c.printScore(st)
	if c.showWell {
		c.print("\r\n" + Well(c.game.Snapshot()))
	}
	c.last = st
}

// Feed queues raw input bytes. Ctrl+C ends the game.
func (c *Console) Feed(b []byte) {
	for i, ch := range b {
		if ch == ctrlC {
			c.dec.Feed(b[:i])
			c.dec.Feed([]byte{'q'})
			return
		}
	}
	c.dec.Feed(b)
}

// Tick advances the game by one tick with the next queued event and prints
// whatever changed. It reports true once the game is over.
func (c *Console) Tick() bool {
	if c.done {
		return true
	}

	ev := c.dec.Poll()
	prev := c.game.State()
	res := c.game.Apply(ev)
	st := res.State

	c.announce(prev, st, ev)
	c.printScore(st)
	if res.Changed && c.showWell && !st.GameOver {
		c.print("\r\n" + Well(c.game.Snapshot()))
	}
	if st.GameOver {
		c.print("\r\nGame Over!\r\n")
		c.done = true
	}
	c.last = st
	return c.done
}

// Done reports whether the game has ended.
func (c *Console) Done() bool {
	return c.done
}

// Err returns the first write error.
func (c *Console) Err() error {
	return c.err
}

func (c *Console) announce(prev, cur core.GameState, ev engine.Event) {
	switch {
	case ev == engine.EventQuit && !prev.GameOver:
		if prev.Paused {
			c.print("QUIT\r\n")
		} else {
			c.print("\r\nQUIT\r\n")
		}
	case !prev.Paused && cur.Paused:
		c.print("\r\nPAUSE\r\n")
	case prev.Paused && !cur.Paused:
		c.print("RESUME\r\n")
	}
}

// printScore writes the status line when any counter moved.
func (c *Console) printScore(st core.GameState) {
	if c.printed && st.Score == c.last.Score && st.Lines == c.last.Lines && st.Level == c.last.Level {
		return
	}
	c.printed = true
	c.print(fmt.Sprintf("\r[Score: %d Lines: %d Lv: %d]   ", st.Score, st.Lines, st.Level))
}

func (c *Console) print(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.out, s)
}

// Well draws the snapshot as ASCII, top row first. Locked and falling cells
// are "[]", the ghost is "::" and empty cells are " .".
func Well(snap engine.Snapshot) string {
	active := make(map[engine.Point]bool, engine.CellsPerPiece)
	ghost := make(map[engine.Point]bool, engine.CellsPerPiece)
	if snap.State != engine.StateOver {
		for _, p := range snap.Current.Cells() {
			active[p] = true
		}
		g := snap.Current
		g.Y = snap.GhostY
		for _, p := range g.Cells() {
			ghost[p] = true
		}
	}

	var sb strings.Builder
	for y := snap.Height - 1; y >= 0; y-- {
		sb.WriteByte('|')
		for x := 0; x < snap.Width; x++ {
			p := engine.Point{X: x, Y: y}
			switch {
			case snap.Occupied(x, y), active[p]:
				sb.WriteString("[]")
			case ghost[p]:
				sb.WriteString("::")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteString("|\r\n")
	}
	sb.WriteByte('+')
	sb.WriteString(strings.Repeat("--", snap.Width))
	sb.WriteString("+\r\n")
	return sb.String()
}
