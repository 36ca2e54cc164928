package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration. It matches the
// embedded defaults/tetris.yaml.
func DefaultTetrisConfig() TetrisConfig {
	table := make([]uint32, len(engine.DefaultDropTable))
	copy(table, engine.DefaultDropTable)

	return TetrisConfig{
		Grid: GridConfig{
			Width:  engine.DefaultWidth,
			Height: engine.DefaultHeight,
		},
		Timing: TimingConfig{
			TickRate:  60,
			DropTable: table,
		},
		Difficulty: DifficultyNormal,
		Spectate: SpectateConfig{
			Addr:   "127.0.0.1:8089",
			Buffer: 16,
		},
		Replay: ReplayConfig{
			Enabled: true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}
