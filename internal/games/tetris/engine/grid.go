package engine

// Well dimensions. Storage is fixed-capacity so a grid never allocates after
// construction; Width and Height pick the used portion.
const (
	DefaultWidth  = 10
	DefaultHeight = 18
	MinWidth      = 4
	MinHeight     = 4
	MaxWidth      = 16
	MaxHeight     = 32
)

// Leveling and scoring parameters.
const (
	MaxLevel         = 20
	LinesPerLevel    = 10
	MaxLinesPerClear = 4
)

// reliefEmpty marks a column with no occupied cells.
const reliefEmpty = -1

// Row is an occupancy bitmask, bit x set means column x is filled.
type Row uint16

// lineScores is indexed by the number of rows cleared at once.
var lineScores = [MaxLinesPerClear + 1]int{0, 40, 100, 300, 1200}

// Grid is the playing field. Row 0 is the bottom of the well.
//
// rows[y] and colors[y] always agree: a color is meaningful only where the
// matching bit is set. relief is a cache that is only exact right after a
// recompute.
type Grid struct {
	rows   [MaxHeight]Row
	colors [MaxHeight][MaxWidth]Color
	relief [MaxWidth]int8

	width  int
	height int

	linesCleared int
	score        int
	level        int
}

// NewGrid creates an empty grid. Dimensions are clamped into
// [MinWidth, MaxWidth] x [MinHeight, MaxHeight].
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Init(width, height)
	return g
}

// Init sets the dimensions and resets cells and counters.
func (g *Grid) Init(width, height int) {
	g.width = clamp(width, MinWidth, MaxWidth)
	g.height = clamp(height, MinHeight, MaxHeight)
	g.linesCleared = 0
	g.score = 0
	g.level = 1
	g.Clear()
}

// Clear empties every cell but keeps score, lines and level.
func (g *Grid) Clear() {
	for y := range g.rows {
		g.rows[y] = 0
		for x := range g.colors[y] {
			g.colors[y][x] = ColorBlack
		}
	}
	for x := range g.relief {
		g.relief[x] = reliefEmpty
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Score returns the accumulated score.
func (g *Grid) Score() int { return g.score }

// LinesCleared returns the total number of rows removed.
func (g *Grid) LinesCleared() int { return g.linesCleared }

// Level returns the current level, 1..MaxLevel.
func (g *Grid) Level() int { return g.level }

// AddScore adds drop bonus points.
func (g *Grid) AddScore(points int) {
	if points > 0 {
		g.score += points
	}
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsOccupied reports whether the cell is filled. Out-of-bounds cells count
// as occupied so callers can skip separate bounds tests.
func (g *Grid) IsOccupied(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.rows[y]&(1<<uint(x)) != 0
}

// SetCell fills a cell. Out-of-bounds coordinates are ignored.
func (g *Grid) SetCell(x, y int, c Color) {
	if !g.inBounds(x, y) {
		return
	}
	g.rows[y] |= 1 << uint(x)
	g.colors[y][x] = c

	// Relief is only raised here; lowering needs a full recompute.
	if int8(y) > g.relief[x] {
		g.relief[x] = int8(y)
	}
}

// ClearCell empties a cell. Out-of-bounds coordinates are ignored.
func (g *Grid) ClearCell(x, y int) {
	if !g.inBounds(x, y) {
		return
	}
	g.rows[y] &^= 1 << uint(x)
	g.colors[y][x] = ColorBlack
}

// CellColor returns the color at (x, y), or ColorBlack if empty or out of
// bounds.
func (g *Grid) CellColor(x, y int) Color {
	if !g.inBounds(x, y) || g.rows[y]&(1<<uint(x)) == 0 {
		return ColorBlack
	}
	return g.colors[y][x]
}

// Row returns the occupancy mask of row y, or 0 out of range.
func (g *Grid) Row(y int) Row {
	if y < 0 || y >= g.height {
		return 0
	}
	return g.rows[y]
}

// Relief returns the cached highest occupied row of column x, or -1.
func (g *Grid) Relief(x int) int {
	if x < 0 || x >= g.width {
		return reliefEmpty
	}
	return int(g.relief[x])
}

func (g *Grid) fullMask() Row {
	return Row(1<<uint(g.width) - 1)
}

// IsRowFull reports whether every column of row y is filled.
func (g *Grid) IsRowFull(y int) bool {
	if y < 0 || y >= g.height {
		return false
	}
	mask := g.fullMask()
	return g.rows[y]&mask == mask
}

// removeRow drops row and shifts everything above it down by one.
func (g *Grid) removeRow(row int) {
	for y := row; y < g.height-1; y++ {
		g.rows[y] = g.rows[y+1]
		g.colors[y] = g.colors[y+1]
	}
	top := g.height - 1
	g.rows[top] = 0
	for x := range g.colors[top] {
		g.colors[top][x] = ColorBlack
	}
}

func (g *Grid) recalcRelief() {
	for x := 0; x < g.width; x++ {
		g.relief[x] = reliefEmpty
		for y := g.height - 1; y >= 0; y-- {
			if g.rows[y]&(1<<uint(x)) != 0 {
				g.relief[x] = int8(y)
				break
			}
		}
	}
}

// ClearLines removes every full row, scores the clear and updates the level.
// Rows are scanned bottom to top; after a removal the same index is tested
// again because it now holds the row that was above.
//
// The returned count is capped at MaxLinesPerClear, as is the score lookup,
// while LinesCleared accumulates the real number of rows removed. The score
// multiplier is the level before this clear.
func (g *Grid) ClearLines() int {
	cleared := 0
	for y := 0; y < g.height; {
		if g.IsRowFull(y) {
			g.removeRow(y)
			cleared++
			continue
		}
		y++
	}

	if cleared == 0 {
		return 0
	}

	g.linesCleared += cleared
	if cleared > MaxLinesPerClear {
		cleared = MaxLinesPerClear
	}
	g.score += lineScores[cleared] * g.level
	g.level = LevelFor(g.linesCleared)

	g.recalcRelief()
	return cleared
}

// LevelFor returns 1 + lines/LinesPerLevel clamped to [1, MaxLevel].
func LevelFor(lines int) int {
	if lines < 0 {
		lines = 0
	}
	level := 1 + lines/LinesPerLevel
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// LineScore returns the base points for clearing n rows at once.
func LineScore(n int) int {
	return lineScores[clamp(n, 0, MaxLinesPerClear)]
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
