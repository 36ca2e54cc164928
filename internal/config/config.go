// Package config provides YAML-based configuration loading and difficulty
// presets for the game.
package config

// TetrisConfig contains all configuration for a game session and the
// services around it.
type TetrisConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Timing     TimingConfig     `yaml:"timing"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Spectate   SpectateConfig   `yaml:"spectate"`
	Replay     ReplayConfig     `yaml:"replay"`
}

// GridConfig defines the well dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig defines the tick rate and gravity speed per level.
type TimingConfig struct {
	TickRate  int      `yaml:"tick_rate"`  // Simulation ticks per second
	DropTable []uint32 `yaml:"drop_table"` // Ticks per gravity step for levels 1..20
}

// SpectateConfig controls the websocket spectator stream.
type SpectateConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	AllowRemote bool   `yaml:"allow_remote"` // Accept non-loopback clients
	Buffer      int    `yaml:"buffer"`       // Frames queued per client before it is dropped
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"` // Empty means ~/.tetris/replays.db
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty validates a preset name. The empty string means normal.
func ParseDifficulty(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}
