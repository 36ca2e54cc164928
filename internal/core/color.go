package core

// Color is a foreground color for a screen cell. The platform maps each
// value to an ANSI 256-color code.
type Color uint8

// Palette used by the well renderer and HUD.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorYellow
	ColorMagenta
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorWhite
	ColorDim
	ColorBrightWhite
)
