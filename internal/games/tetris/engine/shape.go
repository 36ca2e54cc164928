// Package engine provides the falling-block rules engine: the well, the
// piece catalogue, the bag randomizer and the tick-driven session state
// machine. This package is UI-agnostic and deterministic for a given seed and
// input sequence. It never blocks, never returns errors and never panics on
// out-of-range indices; bad kinds and rotations fall back to safe defaults.
package engine

// Kind identifies one of the seven piece shapes.
type Kind uint8

const (
	KindO Kind = iota
	KindT
	KindI
	KindJ
	KindL
	KindS
	KindZ
)

// NumKinds is the number of distinct piece shapes.
const NumKinds = 7

// CellsPerPiece is the number of cells every piece occupies.
const CellsPerPiece = 4

// String returns the single-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	default:
		return "?"
	}
}

// Valid reports whether k names a real shape.
func (k Kind) Valid() bool {
	return k < NumKinds
}

// Color is a small palette index stored per occupied cell.
type Color uint8

const (
	ColorBlack Color = iota
	ColorCyan
	ColorYellow
	ColorPurple
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorWhite
)

// Offset is a cell position relative to a piece origin.
type Offset struct {
	DX, DY int8
}

// shapes holds the cell offsets for [kind][rotation][cell].
// The origin is the bottom-left corner of the bounding box, y grows upward.
var shapes = [NumKinds][4][CellsPerPiece]Offset{
	// O
	{
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	// T
	{
		{{0, 1}, {1, 1}, {2, 1}, {1, 0}},
		{{1, 0}, {1, 1}, {1, 2}, {0, 1}},
		{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 1}},
	},
	// I
	{
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	},
	// J
	{
		{{0, 0}, {0, 1}, {1, 0}, {2, 0}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
	},
	// L
	{
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
		{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 0}},
	},
	// S
	{
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
	},
	// Z
	{
		{{0, 1}, {1, 1}, {1, 0}, {2, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 0}, {2, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
}

// numRotations is the count of distinct rotation states per kind.
var numRotations = [NumKinds]int{1, 4, 2, 4, 4, 2, 2}

// dimensions is the bounding box {width, height} per [kind][rotation].
var dimensions = [NumKinds][4][2]int{
	{{2, 2}, {2, 2}, {2, 2}, {2, 2}},
	{{3, 2}, {2, 3}, {3, 2}, {2, 3}},
	{{4, 1}, {1, 4}, {4, 1}, {1, 4}},
	{{3, 2}, {2, 3}, {3, 2}, {2, 3}},
	{{3, 2}, {2, 3}, {3, 2}, {2, 3}},
	{{3, 2}, {2, 3}, {3, 2}, {2, 3}},
	{{3, 2}, {2, 3}, {3, 2}, {2, 3}},
}

var kindColors = [NumKinds]Color{
	ColorYellow,
	ColorPurple,
	ColorCyan,
	ColorBlue,
	ColorOrange,
	ColorGreen,
	ColorRed,
}

// rotIndex maps any rotation, including negative ones, into [0, 4).
func rotIndex(rot int) int {
	return ((rot % 4) + 4) % 4
}

// Cells returns the four cell offsets of kind at the given rotation.
// Unknown kinds are treated as the O piece.
func Cells(kind Kind, rot int) [CellsPerPiece]Offset {
	if !kind.Valid() {
		kind = KindO
	}
	return shapes[kind][rotIndex(rot)]
}

// Width returns the bounding-box width of kind at the given rotation.
func Width(kind Kind, rot int) int {
	if !kind.Valid() {
		return 2
	}
	return dimensions[kind][rotIndex(rot)][0]
}

// Height returns the bounding-box height of kind at the given rotation.
func Height(kind Kind, rot int) int {
	if !kind.Valid() {
		return 2
	}
	return dimensions[kind][rotIndex(rot)][1]
}

// NumRotations returns how many distinct rotation states kind has (1, 2 or 4).
func NumRotations(kind Kind) int {
	if !kind.Valid() {
		return 1
	}
	return numRotations[kind]
}

// Color returns the fixed palette color for the kind.
func (k Kind) Color() Color {
	if !k.Valid() {
		return kindColors[KindO]
	}
	return kindColors[k]
}

var colorNames = [...]string{
	ColorBlack:  "black",
	ColorCyan:   "cyan",
	ColorYellow: "yellow",
	ColorPurple: "purple",
	ColorGreen:  "green",
	ColorRed:    "red",
	ColorBlue:   "blue",
	ColorOrange: "orange",
	ColorGray:   "gray",
	ColorWhite:  "white",
}

// String returns the palette name of the color.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "black"
}

// MarshalText encodes the color by name so snapshots stay readable as JSON.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a palette name. Unknown names decode to black.
func (c *Color) UnmarshalText(b []byte) error {
	for i, name := range colorNames {
		if name == string(b) {
			*c = Color(i)
			return nil
		}
	}
	*c = ColorBlack
	return nil
}

// MarshalText encodes the kind by its letter.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind letter. Unknown letters decode to O.
func (k *Kind) UnmarshalText(b []byte) error {
	for i := Kind(0); i < NumKinds; i++ {
		if i.String() == string(b) {
			*k = i
			return nil
		}
	}
	*k = KindO
	return nil
}
