package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagReplayLimit int
	flagVerifyFile  string
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse, verify and delete recorded games",
	Long: `Every finished game is stored as its seed and input log. Replaying the
log on a fresh engine must reproduce the final state exactly; 'verify'
checks that.

Examples:
  tetris replays list
  tetris replays show 3
  tetris replays verify 3
  tetris replays export 3 game.tetris
  tetris replays verify --file game.tetris
  tetris replays delete 3
  tetris replays browse`,
}

var replaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded games, newest first",
	Args:  cobra.NoArgs,
	Run:   runReplaysList,
}

var replaysShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded game",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysShow,
}

var replaysVerifyCmd = &cobra.Command{
	Use:   "verify [id]",
	Short: "Re-simulate a recorded game and compare the outcome",
	Args:  cobra.MaximumNArgs(1),
	Run:   runReplaysVerify,
}

var replaysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded game",
	Args:  cobra.ExactArgs(1),
	Run:   runReplaysDelete,
}

var replaysExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a recorded game to a compressed log file",
	Args:  cobra.ExactArgs(2),
	Run:   runReplaysExport,
}

var replaysBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive replay browser",
	Args:  cobra.NoArgs,
	Run:   runReplaysBrowse,
}

func init() {
	replaysListCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Number of replays to show")
	replaysVerifyCmd.Flags().StringVar(&flagVerifyFile, "file", "", "Verify an exported log file instead of a stored replay")

	replaysCmd.AddCommand(replaysListCmd)
	replaysCmd.AddCommand(replaysShowCmd)
	replaysCmd.AddCommand(replaysVerifyCmd)
	replaysCmd.AddCommand(replaysDeleteCmd)
	replaysCmd.AddCommand(replaysExportCmd)
	replaysCmd.AddCommand(replaysBrowseCmd)
}

// mustOpenStore opens the replay database or exits.
func mustOpenStore() *storage.Store {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	path, err := cfg.ReplayDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid replay id %q\n", arg)
		os.Exit(1)
	}
	return id
}

// fail closes the store and exits with the error.
func fail(store *storage.Store, err error) {
	store.Close()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runReplaysList(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	entries, err := store.Replays(flagReplayLimit)
	if err != nil {
		fail(store, err)
	}

	if len(entries) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Finish a game with 'tetris play' to record one.")
		return
	}

	fmt.Printf("  %-5s  %-16s  %-8s  %-5s  %-3s  %-10s  %s\n", "ID", "Date", "Score", "Lines", "Lv", "Seed", "Ticks")
	fmt.Printf("  %-5s  %-16s  %-8s  %-5s  %-3s  %-10s  %s\n", "--", "----", "-----", "-----", "--", "----", "-----")
	for _, e := range entries {
		fmt.Printf("  %-5d  %-16s  %-8d  %-5d  %-3d  %-10d  %d\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Score, e.Lines, e.Level, e.Seed, e.Ticks)
	}
}

func runReplaysShow(_ *cobra.Command, args []string) {
	id := parseID(args[0])
	store := mustOpenStore()
	defer store.Close()

	e, err := store.Entry(id)
	if err != nil {
		fail(store, err)
	}

	fmt.Printf("Replay #%d\n", e.ID)
	fmt.Println()
	fmt.Printf("  Recorded  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Seed      %d\n", e.Seed)
	fmt.Printf("  Well      %dx%d\n", e.Width, e.Height)
	fmt.Printf("  Score     %d\n", e.Score)
	fmt.Printf("  Lines     %d\n", e.Lines)
	fmt.Printf("  Level     %d\n", e.Level)
	fmt.Printf("  Ticks     %d\n", e.Ticks)
	fmt.Printf("  Inputs    %d\n", e.Inputs)
	fmt.Printf("  Final     %s\n", e.State)
	fmt.Printf("  Digest    %016x\n", e.Digest)
}

func runReplaysVerify(_ *cobra.Command, args []string) {
	var (
		l     replay.Log
		label string
	)

	switch {
	case flagVerifyFile != "":
		f, err := os.Open(flagVerifyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		l, err = replay.Decode(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		label = flagVerifyFile

	case len(args) == 1:
		id := parseID(args[0])
		store := mustOpenStore()
		var err error
		l, err = store.Replay(id)
		if err != nil {
			fail(store, err)
		}
		store.Close()
		label = fmt.Sprintf("replay #%d", id)

	default:
		fmt.Fprintln(os.Stderr, "Error: give a replay id or --file")
		os.Exit(1)
	}

	res, err := replay.Verify(l)
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Printf("%s: MISMATCH\n", label)
		fmt.Printf("  recorded  score %d lines %d digest %016x\n", l.Result.Score, l.Result.Lines, l.Result.Digest)
		fmt.Printf("  replayed  score %d lines %d digest %016x\n", res.Score, res.Lines, res.Digest)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok (score %d, lines %d, digest %016x)\n", label, res.Score, res.Lines, res.Digest)
}

func runReplaysDelete(_ *cobra.Command, args []string) {
	id := parseID(args[0])
	store := mustOpenStore()
	defer store.Close()

	if err := store.DeleteReplay(id); err != nil {
		fail(store, err)
	}
	fmt.Printf("Deleted replay #%d\n", id)
}

func runReplaysExport(_ *cobra.Command, args []string) {
	id := parseID(args[0])
	store := mustOpenStore()
	defer store.Close()

	l, err := store.Replay(id)
	if err != nil {
		fail(store, err)
	}

	f, err := os.Create(args[1])
	if err != nil {
		fail(store, err)
	}
	if err := replay.Encode(f, l); err != nil {
		f.Close()
		fail(store, err)
	}
	if err := f.Close(); err != nil {
		fail(store, err)
	}
	fmt.Printf("Exported replay #%d to %s\n", id, args[1])
}

func runReplaysBrowse(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunReplays(store, width, height); err != nil {
		fail(store, err)
	}
}
