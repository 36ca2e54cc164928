package engine

import "testing"

func fillRow(g *Grid, y int) {
	for x := 0; x < g.Width(); x++ {
		g.SetCell(x, y, ColorGray)
	}
}

func TestIsOccupiedOutOfBounds(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"left", -1, 0, true},
		{"right", DefaultWidth, 0, true},
		{"below", 0, -1, true},
		{"above", 0, DefaultHeight, true},
		{"inside", 0, 0, false},
		{"top right", DefaultWidth - 1, DefaultHeight - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsOccupied(tt.x, tt.y); got != tt.want {
				t.Errorf("IsOccupied(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSetAndClearCell(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)

	g.SetCell(3, 4, ColorRed)
	if !g.IsOccupied(3, 4) {
		t.Error("cell should be occupied after SetCell")
	}
	if g.CellColor(3, 4) != ColorRed {
		t.Errorf("CellColor = %v, want red", g.CellColor(3, 4))
	}
	if g.Relief(3) != 4 {
		t.Errorf("Relief(3) = %d, want 4", g.Relief(3))
	}

	g.ClearCell(3, 4)
	if g.IsOccupied(3, 4) {
		t.Error("cell should be empty after ClearCell")
	}
	if g.CellColor(3, 4) != ColorBlack {
		t.Errorf("CellColor after clear = %v, want black", g.CellColor(3, 4))
	}

	// Out of range writes are ignored.
	g.SetCell(-1, 0, ColorRed)
	g.SetCell(0, DefaultHeight, ColorRed)
	g.ClearCell(DefaultWidth, 0)
	for y := 0; y < g.Height(); y++ {
		if g.Row(y) != 0 {
			t.Fatalf("row %d = %b, want empty", y, g.Row(y))
		}
	}
}

func TestGridInitClampsDimensions(t *testing.T) {
	g := NewGrid(100, 1)
	if g.Width() != MaxWidth || g.Height() != MinHeight {
		t.Errorf("NewGrid(100, 1) = %dx%d, want %dx%d", g.Width(), g.Height(), MaxWidth, MinHeight)
	}
	if g.Level() != 1 {
		t.Errorf("Level() = %d, want 1", g.Level())
	}
}

func TestClearLinesEmpty(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)
	if n := g.ClearLines(); n != 0 {
		t.Errorf("ClearLines() = %d, want 0", n)
	}
	if g.Score() != 0 || g.LinesCleared() != 0 {
		t.Errorf("score/lines = %d/%d, want 0/0", g.Score(), g.LinesCleared())
	}
}

func TestClearLinesSingleRow(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)
	fillRow(g, 3)
	g.SetCell(0, 4, ColorBlue)
	g.SetCell(9, 2, ColorGreen)

	if n := g.ClearLines(); n != 1 {
		t.Fatalf("ClearLines() = %d, want 1", n)
	}
	if g.Score() != 40 {
		t.Errorf("Score() = %d, want 40", g.Score())
	}
	if g.LinesCleared() != 1 {
		t.Errorf("LinesCleared() = %d, want 1", g.LinesCleared())
	}
	if g.Row(3) != 1 || g.CellColor(0, 3) != ColorBlue {
		t.Errorf("row above cleared line did not shift down: row3=%b", g.Row(3))
	}
	if g.Row(4) != 0 {
		t.Errorf("row 4 = %b, want empty", g.Row(4))
	}
	if g.CellColor(9, 2) != ColorGreen {
		t.Error("row below cleared line should be untouched")
	}
	if g.Row(DefaultHeight-1) != 0 {
		t.Error("top row should be empty after a clear")
	}
	if g.Relief(0) != 3 {
		t.Errorf("Relief(0) = %d, want 3", g.Relief(0))
	}
}

func TestClearLinesScoring(t *testing.T) {
	tests := []struct {
		name      string
		rows      []int
		level     int
		lines     int
		wantN     int
		wantScore int
		wantLines int
	}{
		{"single", []int{0}, 1, 0, 1, 40, 1},
		{"double", []int{0, 1}, 1, 0, 2, 100, 2},
		{"triple gap", []int{0, 2, 5}, 1, 0, 3, 300, 3},
		{"four", []int{0, 1, 2, 3}, 1, 0, 4, 1200, 4},
		{"five capped", []int{0, 1, 2, 3, 4}, 1, 0, 4, 1200, 5},
		{"level three", []int{0}, 3, 25, 1, 120, 26},
		{"four at level two", []int{0, 1, 2, 3}, 2, 10, 4, 2400, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(DefaultWidth, DefaultHeight)
			g.level = tt.level
			g.linesCleared = tt.lines
			for _, y := range tt.rows {
				fillRow(g, y)
			}

			if n := g.ClearLines(); n != tt.wantN {
				t.Errorf("ClearLines() = %d, want %d", n, tt.wantN)
			}
			if g.Score() != tt.wantScore {
				t.Errorf("Score() = %d, want %d", g.Score(), tt.wantScore)
			}
			if g.LinesCleared() != tt.wantLines {
				t.Errorf("LinesCleared() = %d, want %d", g.LinesCleared(), tt.wantLines)
			}
			if g.Level() != LevelFor(tt.wantLines) {
				t.Errorf("Level() = %d, want %d", g.Level(), LevelFor(tt.wantLines))
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		lines int
		want  int
	}{
		{-3, 1},
		{0, 1},
		{9, 1},
		{10, 2},
		{55, 6},
		{189, 19},
		{190, 20},
		{1000, MaxLevel},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.lines); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.lines, got, tt.want)
		}
	}
}

func TestLineScore(t *testing.T) {
	want := []int{0, 40, 100, 300, 1200, 1200}
	for n, w := range want {
		if got := LineScore(n); got != w {
			t.Errorf("LineScore(%d) = %d, want %d", n, got, w)
		}
	}
}

func TestIsRowFull(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)
	for x := 0; x < DefaultWidth-1; x++ {
		g.SetCell(x, 0, ColorGray)
	}
	if g.IsRowFull(0) {
		t.Error("row with a gap reported full")
	}
	g.SetCell(DefaultWidth-1, 0, ColorGray)
	if !g.IsRowFull(0) {
		t.Error("filled row reported not full")
	}
	if g.IsRowFull(-1) || g.IsRowFull(DefaultHeight) {
		t.Error("out of range rows must not be full")
	}
}
