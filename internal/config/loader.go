package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceEmbedded names the embedded defaults as a config source.
const SourceEmbedded = "embedded"

// Loaded is a configuration together with where it came from.
type Loaded struct {
	TetrisConfig
	Source string
}

// Load loads the game configuration.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml ->
// ./configs/tetris.yaml -> embedded default.
//
// Files are layered over the built-in defaults, so a file may set only the
// keys it cares about. A file that exists but fails validation is an error.
func Load(customPath string) (Loaded, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Loaded{}, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		return parse(data, customPath)
	}

	candidates := []string{userConfigPath("tetris.yaml"), filepath.Join("configs", "tetris.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Loaded{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		return parse(data, path)
	}

	loaded, err := parse(defaultTetrisYAML, SourceEmbedded)
	if err != nil {
		// Fall back to hardcoded defaults if the embedded file is unusable.
		return Loaded{TetrisConfig: DefaultTetrisConfig(), Source: SourceEmbedded}, nil
	}
	return loaded, nil
}

// Parse decodes and validates a YAML document layered over the defaults.
func Parse(data []byte) (TetrisConfig, error) {
	l, err := parse(data, "")
	return l.TetrisConfig, err
}

func parse(data []byte, source string) (Loaded, error) {
	if err := validateDocument(data); err != nil {
		return Loaded{}, withSource(err, source)
	}

	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, withSource(fmt.Errorf("config: cannot parse yaml: %w", err), source)
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = DifficultyNormal
	}
	if err := cfg.Validate(); err != nil {
		return Loaded{}, withSource(err, source)
	}
	return Loaded{TetrisConfig: cfg, Source: source}, nil
}

func withSource(err error, source string) error {
	if source == "" || source == SourceEmbedded {
		return err
	}
	return fmt.Errorf("%s: %w", source, err)
}

// userConfigPath returns the path to a user config file, or empty if home is
// unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}

// DataDir returns ~/.tetris, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, ".tetris")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("config: cannot create %s: %w", dir, err)
	}
	return dir, nil
}

// ReplayDBPath returns the configured replay database path, or the default
// under DataDir.
func (c TetrisConfig) ReplayDBPath() (string, error) {
	if c.Replay.DBPath != "" {
		return c.Replay.DBPath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "replays.db"), nil
}
