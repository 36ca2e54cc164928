package input

const spinSeed uint32 = 0x5A5A5A5A

// Spin advances a start-screen counter. The play loop calls it while
// waiting for the first key so the wait time feeds the seed.
func Spin(seed uint32) uint32 {
	seed++
	seed ^= seed >> 7
	seed ^= seed << 3
	return seed
}

// SeedFromKey mixes a spin counter with the byte of the key that started
// the game. The result is never zero.
func SeedFromKey(spin uint32, key byte) uint32 {
	seed := spinSeed ^ spin
	k := uint32(key)
	seed ^= k | k<<8 | k<<16 | k<<24

	seed = seed<<13 | seed>>19
	seed ^= seed >> 17
	seed ^= seed << 5

	if seed == 0 {
		seed = k | 0x12345
	}
	return seed
}
