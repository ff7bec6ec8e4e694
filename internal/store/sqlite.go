package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/gridrun/grid-runner-go/internal/snapshot"
)

// SQLiteDB implements the DB interface using SQLite. The snapshot document
// is stored as a JSON column; player name, difficulty, and save time are
// lifted into indexed scalar columns for listing.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Ping verifies the store is reachable.
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate runs database migrations.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			player_name TEXT PRIMARY KEY,
			difficulty TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			last_saved DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saves_last_saved ON saves(last_saved DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_saves_difficulty ON saves(difficulty)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveGame upserts the document keyed by player name and stamps lastSaved
// with the current time. The stamped time is returned and also embedded in
// the stored JSON so a later load sees the same value.
func (s *SQLiteDB) SaveGame(ctx context.Context, doc *snapshot.Document) (time.Time, error) {
	if doc == nil || doc.PlayerName == "" {
		return time.Time{}, errors.New("playerName is required")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc.LastSaved = now

	payload, err := json.Marshal(doc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `INSERT INTO saves (player_name, difficulty, snapshot, last_saved)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_name) DO UPDATE SET
			difficulty = excluded.difficulty,
			snapshot = excluded.snapshot,
			last_saved = excluded.last_saved`

	if _, err := s.db.ExecContext(ctx, query,
		doc.PlayerName, string(doc.Difficulty), string(payload), now.Format(time.RFC3339Nano),
	); err != nil {
		return time.Time{}, fmt.Errorf("failed to save game: %w", err)
	}

	return now, nil
}

// LoadGame returns the stored document for playerName, or ErrNotFound.
func (s *SQLiteDB) LoadGame(ctx context.Context, playerName string) (*snapshot.Document, error) {
	if playerName == "" {
		return nil, errors.New("playerName is required")
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM saves WHERE player_name = ?`, playerName,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	var doc snapshot.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	return &doc, nil
}

// ListSaves returns one summary per stored game, most recent first.
func (s *SQLiteDB) ListSaves(ctx context.Context) ([]SaveSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_name, difficulty, last_saved FROM saves ORDER BY last_saved DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	summaries := make([]SaveSummary, 0)
	for rows.Next() {
		var sum SaveSummary
		var lastSaved string
		if err := rows.Scan(&sum.PlayerName, &sum.Difficulty, &lastSaved); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		if sum.LastSaved, err = time.Parse(time.RFC3339Nano, lastSaved); err != nil {
			return nil, fmt.Errorf("failed to parse last_saved %q: %w", lastSaved, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// DeleteGame removes the save for playerName, or reports ErrNotFound.
func (s *SQLiteDB) DeleteGame(ctx context.Context, playerName string) error {
	if playerName == "" {
		return errors.New("playerName is required")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE player_name = ?`, playerName)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
