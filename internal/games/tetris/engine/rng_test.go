package engine

import "testing"

func TestNextU32Sequence(t *testing.T) {
	r := NewRandomizer(12345)
	want := []uint32{3336926330, 1697253807, 2816511904}
	for i, w := range want {
		if got := r.NextU32(); got != w {
			t.Errorf("NextU32() #%d = %d, want %d", i, got, w)
		}
	}
}

func TestZeroSeedUsesDefault(t *testing.T) {
	a := NewRandomizer(0)
	b := NewRandomizer(DefaultSeed)
	for i := 0; i < 14; i++ {
		if ka, kb := a.NextKind(), b.NextKind(); ka != kb {
			t.Fatalf("draw %d: seed 0 gave %s, default seed gave %s", i, ka, kb)
		}
	}
}

func TestBagIsPermutation(t *testing.T) {
	seeds := []uint32{1, 2, 7, 12345, 0xdeadbeef}
	for _, seed := range seeds {
		r := NewRandomizer(seed)
		for bag := 0; bag < 4; bag++ {
			var count [NumKinds]int
			for i := 0; i < NumKinds; i++ {
				k := r.NextKind()
				if !k.Valid() {
					t.Fatalf("seed %d: invalid kind %d", seed, k)
				}
				count[k]++
			}
			for k, n := range count {
				if n != 1 {
					t.Errorf("seed %d bag %d: kind %s drawn %d times", seed, bag, Kind(k), n)
				}
			}
		}
	}
}

func TestKnownDrawOrder(t *testing.T) {
	r := NewRandomizer(1)
	want := "LOIJSZTITJSLZO"
	got := ""
	for i := 0; i < len(want); i++ {
		got += r.NextKind().String()
	}
	if got != want {
		t.Errorf("draw order = %s, want %s", got, want)
	}
}

func TestRemaining(t *testing.T) {
	r := NewRandomizer(99)
	if r.Remaining() != 0 {
		t.Errorf("Remaining() before first draw = %d, want 0", r.Remaining())
	}
	r.NextKind()
	if r.Remaining() != NumKinds-1 {
		t.Errorf("Remaining() = %d, want %d", r.Remaining(), NumKinds-1)
	}
	r.Seed(99)
	if r.Remaining() != 0 {
		t.Errorf("Remaining() after reseed = %d, want 0", r.Remaining())
	}
}
