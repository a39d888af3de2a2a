// Package storage provides SQLite-based persistence for saved games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: save not found")

// Store manages the SQLite database connection for saved games.
type Store struct {
	db *sql.DB
}

// SavedGame is one persisted game. State holds the encoded snapshot and is
// only populated by LoadGame and LatestSave.
type SavedGame struct {
	ID        int64
	GameID    string
	Name      string
	Score     int
	Lines     int
	State     []byte
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			state BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_saves_game_id ON saves(game_id, id DESC);
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

// SaveGame stores an encoded game state.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(gameID, name string, score, lines int, state []byte) (int64, error) {
	if len(state) == 0 {
		return 0, fmt.Errorf("storage: cannot save empty state for %s", gameID)
	}

	result, err := s.db.Exec(
		"INSERT INTO saves (game_id, name, score, lines, state) VALUES (?, ?, ?, ?, ?)",
		gameID, name, score, lines, state,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// LoadGame retrieves a saved game including its state.
func (s *Store) LoadGame(id int64) (*SavedGame, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, name, score, lines, state, created_at
		 FROM saves WHERE id = ?`,
		id,
	)
	return scanFull(row, fmt.Sprintf("id %d", id))
}

// LatestSave retrieves the most recent save for the given game.
func (s *Store) LatestSave(gameID string) (*SavedGame, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, name, score, lines, state, created_at
		 FROM saves WHERE game_id = ?
		 ORDER BY id DESC LIMIT 1`,
		gameID,
	)
	return scanFull(row, gameID)
}

func scanFull(row *sql.Row, what string) (*SavedGame, error) {
	var g SavedGame
	var createdAt any
	err := row.Scan(&g.ID, &g.GameID, &g.Name, &g.Score, &g.Lines, &g.State, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load save: %w", err)
	}
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}

// ListSaves retrieves saves newest first, without their state.
// An empty gameID lists every game. A non-positive limit means 50.
func (s *Store) ListSaves(gameID string, limit int) ([]SavedGame, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, name, score, lines, created_at
		 FROM saves
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SavedGame
	for rows.Next() {
		var g SavedGame
		var createdAt any
		if err := rows.Scan(&g.ID, &g.GameID, &g.Name, &g.Score, &g.Lines, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.CreatedAt = parseTime(createdAt)
		saves = append(saves, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return saves, nil
}

// DeleteSave removes a saved game.
func (s *Store) DeleteSave(id int64) error {
	result, err := s.db.Exec("DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// ClearSaves deletes all saves for the given game.
func (s *Store) ClearSaves(gameID string) error {
	_, err := s.db.Exec("DELETE FROM saves WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear saves: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
