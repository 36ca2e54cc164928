package engine

// Direction is a one-cell movement of a piece.
type Direction int

const (
	DirDown Direction = iota
	DirLeft
	DirUp
	DirRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) offset for the direction. Up is +y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirUp:
		return 0, 1
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Point is an absolute grid coordinate.
type Point struct {
	X, Y int
}

// Piece is a falling block. X, Y locate the bottom-left of its bounding box.
type Piece struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	Kind     Kind  `json:"kind"`
	Rotation int   `json:"rotation"`
	Color    Color `json:"color"`
}

// Cells returns the absolute grid cells the piece covers.
func (p Piece) Cells() [CellsPerPiece]Point {
	var out [CellsPerPiece]Point
	for i, off := range Cells(p.Kind, p.Rotation) {
		out[i] = Point{X: p.X + int(off.DX), Y: p.Y + int(off.DY)}
	}
	return out
}

// Collides reports whether p overlaps a wall, the floor or a filled cell.
// Cells above the top row never collide so pieces can enter from above.
func (g *Grid) Collides(p *Piece) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= g.width || c.Y < 0 {
			return true
		}
		if c.Y >= g.height {
			continue
		}
		if g.rows[c.Y]&(1<<uint(c.X)) != 0 {
			return true
		}
	}
	return false
}

// Spawn places a new piece of kind centered at the top of the well.
// It does not test for collision; callers check for top-out separately.
func (g *Grid) Spawn(p *Piece, kind Kind) {
	p.Kind = kind
	p.Rotation = 0
	p.Color = kind.Color()
	p.X = (g.width - Width(kind, 0)) / 2
	p.Y = g.height - Height(kind, 0)
}

// Move shifts p one cell in dir. On collision p is left untouched and
// false is returned.
func (g *Grid) Move(p *Piece, dir Direction) bool {
	oldX, oldY := p.X, p.Y

	dx, dy := dir.Delta()
	p.X += dx
	p.Y += dy

	if g.Collides(p) {
		p.X, p.Y = oldX, oldY
		return false
	}
	return true
}

// Rotate turns p by amount quarter turns. If the new orientation collides it
// tries one cell left, then one cell right of the original column. There is
// no vertical kick and no per-shape kick table. On failure p is restored
// exactly.
func (g *Grid) Rotate(p *Piece, amount int) bool {
	oldRot := p.Rotation
	oldX := p.X
	n := NumRotations(p.Kind)

	p.Rotation = ((p.Rotation+amount)%n + n) % n

	if !g.Collides(p) {
		return true
	}

	p.X = oldX - 1
	if !g.Collides(p) {
		return true
	}

	p.X = oldX + 1
	if !g.Collides(p) {
		return true
	}

	p.X = oldX
	p.Rotation = oldRot
	return false
}

// HardDrop moves p down until it rests and returns the number of rows it
// fell. A piece that is already resting drops 0 rows.
func (g *Grid) HardDrop(p *Piece) int {
	dropped := 0
	for g.Move(p, DirDown) {
		dropped++
	}
	return dropped
}

// GhostY returns the y at which p would come to rest, without moving it.
func (g *Grid) GhostY(p Piece) int {
	g.HardDrop(&p)
	return p.Y
}

// Add writes the piece's cells into the grid. Cells outside the well are
// dropped.
func (g *Grid) Add(p *Piece) {
	for _, c := range p.Cells() {
		g.SetCell(c.X, c.Y, p.Color)
	}
}
