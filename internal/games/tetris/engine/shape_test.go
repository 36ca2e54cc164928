package engine

import "testing"

func TestShapeTablesAreTight(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		for rot := 0; rot < 4; rot++ {
			cells := Cells(k, rot)
			w, h := Width(k, rot), Height(k, rot)

			seen := make(map[Offset]bool)
			maxX, maxY := 0, 0
			for _, c := range cells {
				if c.DX < 0 || c.DY < 0 {
					t.Errorf("%s rot %d: negative offset %v", k, rot, c)
				}
				if seen[c] {
					t.Errorf("%s rot %d: duplicate cell %v", k, rot, c)
				}
				seen[c] = true
				maxX = max(maxX, int(c.DX))
				maxY = max(maxY, int(c.DY))
			}
			if maxX != w-1 || maxY != h-1 {
				t.Errorf("%s rot %d: cells span %dx%d, want %dx%d", k, rot, maxX+1, maxY+1, w, h)
			}
		}
	}
}

func TestNumRotations(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindO, 1},
		{KindT, 4},
		{KindI, 2},
		{KindJ, 4},
		{KindL, 4},
		{KindS, 2},
		{KindZ, 2},
		{Kind(42), 1},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := NumRotations(tt.kind); got != tt.want {
				t.Errorf("NumRotations(%d) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestShapeLookupFallback(t *testing.T) {
	bad := Kind(NumKinds + 3)

	if Cells(bad, 0) != Cells(KindO, 0) {
		t.Error("unknown kind should fall back to O cells")
	}
	if Width(bad, 1) != 2 || Height(bad, 1) != 2 {
		t.Errorf("unknown kind dims = %dx%d, want 2x2", Width(bad, 1), Height(bad, 1))
	}
	if bad.Color() != ColorYellow {
		t.Errorf("unknown kind color = %v, want yellow", bad.Color())
	}
	if bad.Valid() {
		t.Error("Valid() = true for unknown kind")
	}
}

func TestRotationIndexWraps(t *testing.T) {
	if Cells(KindT, 5) != Cells(KindT, 1) {
		t.Error("rotation 5 should equal rotation 1")
	}
	if Cells(KindT, -1) != Cells(KindT, 3) {
		t.Error("rotation -1 should equal rotation 3")
	}
	if Width(KindI, 7) != Width(KindI, 3) {
		t.Error("width lookup should wrap rotation")
	}
}

func TestKindColors(t *testing.T) {
	want := map[Kind]Color{
		KindO: ColorYellow,
		KindT: ColorPurple,
		KindI: ColorCyan,
		KindJ: ColorBlue,
		KindL: ColorOrange,
		KindS: ColorGreen,
		KindZ: ColorRed,
	}
	for k, c := range want {
		if k.Color() != c {
			t.Errorf("%s.Color() = %v, want %v", k, k.Color(), c)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for k := Kind(0); k < NumKinds; k++ {
		b, _ := k.MarshalText()
		var got Kind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != k {
			t.Errorf("round trip %s = %s", k, got)
		}
	}
}
