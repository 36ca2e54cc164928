package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/spectate"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagSpectate     bool
	flagSpectateAddr string
	flagNoRecord     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Left/A/H     - Move left
  Right/D/L    - Move right
  Up/W/K       - Rotate
  Down/S/J     - Soft drop
  Space        - Hard drop
  P            - Pause
  Q            - End the game (press again to leave)
  R            - Restart (after game over)
  Esc/Ctrl+C   - Leave immediately
  Ctrl+S       - Save a screenshot to ~/.tetris/screenshots

Difficulty options:
  easy   - Gravity 1.5x slower at every level
  normal - The standard drop table
  hard   - Gravity twice as fast
  fixed  - Level 1 speed at every level

Finished games are recorded to the replay database unless --no-record is set.

Examples:
  tetris play
  tetris play --seed 42
  tetris play --difficulty hard
  tetris play --spectate --spectate-addr 127.0.0.1:9000
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSpectate, "spectate", false, "Stream the game to websocket spectators")
	playCmd.Flags().StringVar(&flagSpectateAddr, "spectate-addr", "", "Spectator listen address (default: from config)")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save a replay of finished games")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := tetris.ID
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tetris list' to see available modes.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The terminal belongs to the game, so logs go to a file.
	logger, closeLog := gameLogger()
	defer closeLog()

	settings := registry.Settings{Config: cfg}
	if flagVerbose {
		settings.Observer = engine.NewLogObserver(logger)
	}

	var store *storage.Store
	if cfg.Replay.Enabled && !flagNoRecord {
		store = openStore(cfg, logger)
		settings.Record = store != nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if flagSpectate || cfg.Spectate.Enabled {
		hub := startSpectate(ctx, cfg.Spectate, logger)
		settings.Publisher = hub
	}

	game, err := registry.Create(gameID, settings)
	if err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Timing.TickRate,
		Seed:     flagSeed,
	}

	var replays tui.ReplayStore
	if store != nil {
		replays = store
	}
	runErr := tui.Run(game, replays, rc, tui.WithLogger(logger))

	cancel()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openStore opens the replay database. Failure only disables recording.
func openStore(cfg config.TetrisConfig, logger *log.Logger) *storage.Store {
	path, err := cfg.ReplayDBPath()
	if err != nil {
		logger.Warn("replays disabled", "error", err)
		return nil
	}
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("replays disabled", "error", err)
		return nil
	}
	return store
}

// startSpectate runs the spectator hub until ctx is cancelled.
func startSpectate(ctx context.Context, sc config.SpectateConfig, logger *log.Logger) *spectate.Hub {
	addr := sc.Addr
	if flagSpectateAddr != "" {
		addr = flagSpectateAddr
	}

	hub := spectate.NewHub(spectate.Options{
		AllowRemote: sc.AllowRemote,
		Buffer:      sc.Buffer,
		Logger:      logger.WithPrefix("spectate"),
	})
	go func() {
		if err := hub.ListenAndServe(ctx, addr); err != nil {
			logger.Error("spectator stream stopped", "error", err)
		}
	}()
	return hub
}

// gameLogger opens ~/.tetris/tetris.log for the length of a game. Without
// --verbose only warnings and errors are written.
func gameLogger() (*log.Logger, func()) {
	dir, err := config.DataDir()
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "tetris.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}
