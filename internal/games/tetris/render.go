package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// Each well cell is two characters wide so blocks look square.
const cellW = 2

const (
	previewCells = 4
	sidebarW     = previewCells*cellW + 2
	sidebarGap   = 2
)

var cellColors = [...]core.Color{
	engine.ColorBlack:  core.ColorDefault,
	engine.ColorCyan:   core.ColorCyan,
	engine.ColorYellow: core.ColorYellow,
	engine.ColorPurple: core.ColorMagenta,
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorRed:    core.ColorRed,
	engine.ColorBlue:   core.ColorBlue,
	engine.ColorOrange: core.ColorOrange,
	engine.ColorGray:   core.ColorGray,
	engine.ColorWhite:  core.ColorWhite,
}

// ScreenColor maps an engine palette index to a screen color.
func ScreenColor(c engine.Color) core.Color {
	if int(c) >= len(cellColors) {
		return core.ColorDefault
	}
	return cellColors[c]
}

// layout positions the well and the sidebar on the screen.
type layout struct {
	well    core.Rect // including the border
	sidebar core.Rect
}

func (g *Game) layout(w, h int) (layout, bool) {
	gw, gh := g.session.Width(), g.session.Height()
	wellW := gw*cellW + 2
	wellH := gh + 2

	totalW := wellW + sidebarGap + sidebarW
	totalH := wellH + 1
	if w < totalW || h < totalH {
		return layout{}, false
	}

	x := (w - totalW) / 2
	y := 1 + (h-totalH)/2
	return layout{
		well:    core.NewRect(x, y, wellW, wellH),
		sidebar: core.NewRect(x+wellW+sidebarGap, y, sidebarW, wellH),
	}, true
}

// Render draws the well, the active piece with its ghost, the look-ahead
// piece and the counters.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}

	lay, ok := g.layout(dst.Width(), dst.Height())
	if !ok {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorWhite)
		return
	}

	dst.DrawTextColor(lay.well.X, lay.well.Y-1, "TETRIS", core.ColorBrightWhite)

	g.renderWell(dst, lay.well)
	g.renderSidebar(dst, lay.sidebar)

	st := g.session.State()
	switch st {
	case engine.StateOver:
		g.renderOverlay(dst, lay.well, "GAME OVER", "R restart")
	case engine.StatePaused:
		g.renderOverlay(dst, lay.well, "PAUSED", "P resume")
	}
}

// screenY converts an engine row (0 = bottom) to a screen row inside box.
func (g *Game) screenY(box core.Rect, y int) int {
	return box.Y + 1 + (g.session.Height() - 1 - y)
}

func (g *Game) renderWell(dst *core.Screen, box core.Rect) {
	dst.DrawBox(box, core.ColorGray)

	gw, gh := g.session.Width(), g.session.Height()
	for y := 0; y < gh; y++ {
		sy := g.screenY(box, y)
		for x := 0; x < gw; x++ {
			sx := box.X + 1 + x*cellW
			if g.session.IsOccupied(x, y) {
				drawBlock(dst, sx, sy, ScreenColor(g.session.CellColor(x, y)))
			} else {
				dst.SetColor(sx, sy, ' ', core.ColorDim)
				dst.SetColor(sx+1, sy, '.', core.ColorDim)
			}
		}
	}

	if g.session.State() == engine.StateOver {
		return
	}

	cur := g.session.Current()
	ghost := cur
	ghost.Y = g.session.GhostY()
	if ghost.Y != cur.Y {
		for _, c := range ghost.Cells() {
			if c.Y < gh {
				sx := box.X + 1 + c.X*cellW
				dst.SetColor(sx, g.screenY(box, c.Y), '░', core.ColorDim)
				dst.SetColor(sx+1, g.screenY(box, c.Y), '░', core.ColorDim)
			}
		}
	}
	for _, c := range cur.Cells() {
		if c.Y < gh {
			drawBlock(dst, box.X+1+c.X*cellW, g.screenY(box, c.Y), ScreenColor(cur.Color))
		}
	}
}

func drawBlock(dst *core.Screen, x, y int, c core.Color) {
	dst.SetColor(x, y, '█', c)
	dst.SetColor(x+1, y, '█', c)
}

func (g *Game) renderSidebar(dst *core.Screen, box core.Rect) {
	preview := core.NewRect(box.X, box.Y, box.W, previewCells+2)
	dst.DrawBox(preview, core.ColorGray)
	dst.DrawTextColor(preview.X+2, preview.Y, "NEXT", core.ColorWhite)

	next := g.session.Next()
	shapeW := engine.Width(next.Kind, 0) * cellW
	shapeH := engine.Height(next.Kind, 0)
	ox := preview.X + 1 + (preview.W-2-shapeW)/2
	oy := preview.Y + 1 + (previewCells-shapeH)/2
	for _, off := range engine.Cells(next.Kind, 0) {
		// Offsets grow upward; the preview is drawn top-down.
		drawBlock(dst, ox+int(off.DX)*cellW, oy+shapeH-1-int(off.DY), ScreenColor(next.Color))
	}

	y := preview.Bottom() + 1
	lines := []string{
		fmt.Sprintf("Score %d", g.session.Score()),
		fmt.Sprintf("Lines %d", g.session.Lines()),
		fmt.Sprintf("Level %d", g.session.Level()),
	}
	for i, line := range lines {
		dst.DrawTextColor(box.X, y+i, line, core.ColorBrightWhite)
	}

	help := []string{"←→ move", "↑ rotate", "↓ soft", "␣ drop", "P pause", "Q quit"}
	y += len(lines) + 1
	for i, line := range help {
		if y+i >= box.Bottom() {
			break
		}
		dst.DrawTextColor(box.X, y+i, line, core.ColorDim)
	}
}

// renderOverlay draws a small framed message centered in the well.
func (g *Game) renderOverlay(dst *core.Screen, well core.Rect, line1, line2 string) {
	inner := well.Inset(1)
	w := max(len(line1), len(line2)) + 4
	if w > inner.W {
		w = inner.W
	}
	r := core.NewRect(inner.X+(inner.W-w)/2, inner.Y+inner.H/2-2, w, 4)

	dst.DrawRect(r, core.Cell{Rune: ' '})
	dst.DrawBox(r, core.ColorWhite)
	dst.DrawTextColor(r.X+(r.W-len(line1))/2, r.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextColor(r.X+(r.W-len(line2))/2, r.Y+2, line2, core.ColorWhite)
}
