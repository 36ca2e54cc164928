// tetris is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	tetris list                 - List available game modes
//	tetris play [mode]          - Play in the terminal
//	tetris stream               - Play on a raw character stream
//	tetris serve                - Start SSH server for remote play
//	tetris replays <command>    - Browse, verify and delete recorded games
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config, 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set replay database path (default: ~/.tetris/replays.db)
//	--config <path>       - Use a custom config file
//	--difficulty <name>   - easy, normal, hard or fixed
//	--verbose             - Log engine events to stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       uint32
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris - falling blocks in your terminal",
	Long: `A deterministic falling-block puzzle game for the terminal.

Available commands:
  list     - Show available game modes
  play     - Play in the terminal
  stream   - Play over a raw character stream (serial-console style)
  serve    - Start SSH server for remote play
  replays  - Browse, verify and delete recorded games

Examples:
  tetris play
  tetris play --seed 42 --difficulty hard
  tetris play --spectate
  tetris serve --ssh :2222
  tetris replays verify 3`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = use config)")
	rootCmd.PersistentFlags().Uint32Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to replay database (default: ~/.tetris/replays.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log engine events to stderr")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.TetrisConfig, error) {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return config.TetrisConfig{}, err
	}
	cfg := loaded.TetrisConfig

	if flagDifficulty != "" {
		preset, ok := config.ParseDifficulty(flagDifficulty)
		if !ok {
			return config.TetrisConfig{}, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		cfg.Difficulty = preset
	}
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Replay.DBPath = flagDBPath
	}

	newLogger(os.Stderr).Debug("config loaded", "source", loaded.Source, "difficulty", cfg.Difficulty)
	return cfg, nil
}

// newLogger returns a logger writing to w. Without --verbose only warnings
// and errors are shown.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
