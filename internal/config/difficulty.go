package config

// DropTableFor returns a copy of table adjusted for preset.
//
// Easy slows gravity by half again, hard doubles it, and fixed keeps the
// level-1 speed for every level. Entries never drop below one tick.
func DropTableFor(table []uint32, preset DifficultyPreset) []uint32 {
	out := make([]uint32, len(table))
	for i, v := range table {
		switch preset {
		case DifficultyEasy:
			v = v * 3 / 2
		case DifficultyHard:
			v /= 2
		case DifficultyFixed:
			v = table[0]
		}
		if v < 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}

// EffectiveDropTable returns the configured drop table with the difficulty
// preset applied.
func (c TetrisConfig) EffectiveDropTable() []uint32 {
	return DropTableFor(c.Timing.DropTable, c.Difficulty)
}
