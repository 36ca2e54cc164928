package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/input"
	"github.com/vovakirdan/tui-tetris/internal/platform/console"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var flagShowWell bool

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Play over a raw character stream",
	Long: `Play with stdin as the keyboard and stdout as a serial console.

The terminal is put in raw mode. Status lines are printed only when the
score, lines or level change. PAUSE, RESUME, QUIT and Game Over are
announced on their own lines.

Keys: a/d/w/s, h/l/k/j or arrows; space to drop; p to pause; q to quit.

Without --seed the game waits for a key and mixes it with a spin counter
to pick the seed.`,
	Run: runStream,
}

func init() {
	streamCmd.Flags().BoolVar(&flagShowWell, "well", true, "Print the well after every change")
}

func runStream(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, rawErr := term.MakeRaw(fd)
		if rawErr != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot enter raw mode: %v\n", rawErr)
			os.Exit(1)
		}
		defer term.Restore(fd, state) //nolint:errcheck // Best-effort restore
	}

	settings := registry.Settings{Config: cfg}
	if flagVerbose {
		settings.Observer = engine.NewLogObserver(logger)
	}
	var store *storage.Store
	if cfg.Replay.Enabled {
		store = openStore(cfg, logger)
	}
	if store != nil {
		defer store.Close()
		settings.Record = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Spectate.Enabled {
		settings.Publisher = startSpectate(ctx, cfg.Spectate, logger)
	}

	game := tetris.New(settings)
	con := console.New(os.Stdout, game, flagShowWell)
	keys := readBytes(ctx, os.Stdin)

	con.Banner()
	seed := flagSeed
	if seed == 0 {
		seed = waitForSeed(keys)
	}
	con.Start(seed)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Timing.TickRate))
	defer ticker.Stop()

	for !con.Done() {
		<-ticker.C
		drain(keys, con)
		con.Tick()
	}

	if err := con.Err(); err != nil {
		logger.Error("console output failed", "error", err)
	}
	if l, ok := game.ReplayLog(); ok && store != nil {
		id, saveErr := store.SaveReplay(l)
		if saveErr != nil {
			logger.Warn("could not save replay", "error", saveErr)
		} else {
			fmt.Printf("Replay #%d saved (seed %d)\r\n", id, l.Seed)
		}
	}
}

// waitForSeed spins a counter until the first key arrives and mixes the two.
// The key itself is consumed.
func waitForSeed(keys <-chan []byte) uint32 {
	spin := input.Spin(uint32(time.Now().UnixNano()))
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case b, ok := <-keys:
			if !ok || len(b) == 0 {
				return input.SeedFromKey(spin, 0)
			}
			return input.SeedFromKey(spin, b[0])
		case <-tick.C:
			spin = input.Spin(spin)
		}
	}
}

// drain feeds every chunk read so far without blocking.
func drain(keys <-chan []byte, con *console.Console) {
	for {
		select {
		case b, ok := <-keys:
			if !ok {
				return
			}
			con.Feed(b)
		default:
			return
		}
	}
}

// readBytes copies r into a channel until EOF or ctx is done.
func readBytes(ctx context.Context, r io.Reader) <-chan []byte {
	ch := make(chan []byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case ch <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
