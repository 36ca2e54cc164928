// Package storage provides SQLite-based persistence for recorded replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tetris/internal/replay"
)

const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a replay ID does not exist.
var ErrNotFound = errors.New("storage: replay not found")

// Store manages the SQLite database connection for the replay index.
type Store struct {
	db *sql.DB
}

// ReplayEntry is the index row of one stored replay. The encoded log is
// loaded separately with Replay.
type ReplayEntry struct {
	ID        int64
	Seed      uint32
	Width     int
	Height    int
	Score     int
	Lines     int
	Level     int
	Ticks     uint32
	Inputs    int
	State     string
	Digest    uint64
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			level INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			inputs INTEGER NOT NULL,
			state TEXT NOT NULL,
			digest TEXT NOT NULL,
			log BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay encodes and stores a replay log.
// Returns the ID of the inserted record.
func (s *Store) SaveReplay(l replay.Log) (int64, error) {
	blob, err := replay.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode replay: %w", err)
	}

	createdAt := l.RecordedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO replays
		 (seed, width, height, score, lines, level, ticks, inputs, state, digest, log, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(l.Seed), l.Width, l.Height,
		l.Result.Score, l.Result.Lines, l.Result.Level,
		int64(l.Ticks), len(l.Inputs), l.Result.State.String(),
		formatDigest(l.Result.Digest), blob,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Replays lists stored replays, newest first.
func (s *Store) Replays(limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, width, height, score, lines, level, ticks, inputs, state, digest, created_at
		 FROM replays
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Entry returns the index row of one replay.
func (s *Store) Entry(id int64) (ReplayEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, seed, width, height, score, lines, level, ticks, inputs, state, digest, created_at
		 FROM replays WHERE id = ?`,
		id,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplayEntry{}, ErrNotFound
	}
	return e, err
}

// Replay loads and decodes the log of one replay.
func (s *Store) Replay(id int64) (replay.Log, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT log FROM replays WHERE id = ?", id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return replay.Log{}, ErrNotFound
	}
	if err != nil {
		return replay.Log{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	l, err := replay.Unmarshal(blob)
	if err != nil {
		return replay.Log{}, fmt.Errorf("storage: replay %d: %w", id, err)
	}
	return l, nil
}

// DeleteReplay removes one replay.
func (s *Store) DeleteReplay(id int64) error {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored replays.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM replays").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count replays: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (ReplayEntry, error) {
	var (
		e         ReplayEntry
		seed      int64
		ticks     int64
		digest    string
		createdAt any
	)
	err := row.Scan(&e.ID, &seed, &e.Width, &e.Height, &e.Score, &e.Lines, &e.Level,
		&ticks, &e.Inputs, &e.State, &digest, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	e.Seed = uint32(seed)
	e.Ticks = uint32(ticks)
	e.Digest, _ = strconv.ParseUint(digest, 16, 64)

	// Parse the datetime - handle both time.Time and string
	switch v := createdAt.(type) {
	case time.Time:
		e.CreatedAt = v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			e.CreatedAt = parsed
		}
	}
	return e, nil
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}
