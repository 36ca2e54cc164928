package engine

// DefaultSeed replaces a zero seed, which is a fixed point of xorshift.
const DefaultSeed uint32 = 12345

// Randomizer is a xorshift32 generator feeding a 7-bag piece shuffler.
// Every run of NumKinds draws after a reshuffle contains each kind once.
type Randomizer struct {
	state uint32
	bag   [NumKinds]Kind
	pos   int
}

// NewRandomizer returns a randomizer seeded with seed.
func NewRandomizer(seed uint32) *Randomizer {
	r := &Randomizer{}
	r.Seed(seed)
	return r
}

// Seed resets the generator state and empties the bag so the next draw
// starts a fresh permutation.
func (r *Randomizer) Seed(seed uint32) {
	if seed == 0 {
		seed = DefaultSeed
	}
	r.state = seed
	r.pos = NumKinds
}

// NextU32 advances the generator and returns the new state.
func (r *Randomizer) NextU32() uint32 {
	if r.state == 0 {
		r.state = DefaultSeed
	}
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return r.state
}

// NextKind draws the next piece from the bag, reshuffling when it runs out.
func (r *Randomizer) NextKind() Kind {
	if r.pos >= NumKinds || r.pos < 0 {
		r.shuffle()
	}
	k := r.bag[r.pos]
	r.pos++
	return k
}

// Remaining returns how many kinds are left in the current bag.
func (r *Randomizer) Remaining() int {
	if r.pos >= NumKinds || r.pos < 0 {
		return 0
	}
	return NumKinds - r.pos
}

// shuffle refills the bag with a Fisher-Yates permutation.
func (r *Randomizer) shuffle() {
	for i := range r.bag {
		r.bag[i] = Kind(i)
	}
	for i := NumKinds - 1; i > 0; i-- {
		j := int(r.NextU32() % uint32(i+1))
		r.bag[i], r.bag[j] = r.bag[j], r.bag[i]
	}
	r.pos = 0
}
