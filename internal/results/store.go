// Package results implements the SQLite-backed archive of completed
// test results. It satisfies the engine's ResultStore interface, so it
// can replace the in-memory store wherever results should survive a
// restart.
package results

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sergei-tigrov/12union/internal/engine"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store archives completed test results in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens SQLite with WAL
// mode, and runs the schema migration.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("results: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("results: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("results: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("results: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id                  TEXT PRIMARY KEY,
			session_id          TEXT NOT NULL UNIQUE,
			mode                TEXT NOT NULL,
			relationship_status TEXT NOT NULL,
			personal_level      REAL NOT NULL,
			relationship_level  REAL NOT NULL,
			payload             TEXT NOT NULL,
			created_at          TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put archives one result. The full record is stored as JSON alongside
// the scalar columns used for lookups.
func (s *Store) Put(result engine.TestResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("results: encoding result %q: %w", result.ID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO results (id, session_id, mode, relationship_status, personal_level, relationship_level, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			id = excluded.id,
			personal_level = excluded.personal_level,
			relationship_level = excluded.relationship_level,
			payload = excluded.payload,
			created_at = excluded.created_at`,
		result.ID, result.SessionID, string(result.Mode), string(result.RelationshipStatus),
		result.PersonalLevel, result.RelationshipLevel, string(payload),
		result.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("results: storing result %q: %w", result.ID, err)
	}
	return nil
}

// Get returns an archived result by result id.
func (s *Store) Get(resultID string) (engine.TestResult, error) {
	return s.getWhere("id = ?", resultID)
}

// GetBySession returns the archived result for a session.
func (s *Store) GetBySession(sessionID string) (engine.TestResult, error) {
	return s.getWhere("session_id = ?", sessionID)
}

func (s *Store) getWhere(where, arg string) (engine.TestResult, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM results WHERE "+where, arg).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.TestResult{}, fmt.Errorf("%w: %q", engine.ErrResultNotFound, arg)
	}
	if err != nil {
		return engine.TestResult{}, fmt.Errorf("results: loading result: %w", err)
	}
	var result engine.TestResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return engine.TestResult{}, fmt.Errorf("results: decoding result: %w", err)
	}
	return result, nil
}

// List returns all archived results, oldest first.
func (s *Store) List() ([]engine.TestResult, error) {
	rows, err := s.db.Query("SELECT payload FROM results ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("results: listing results: %w", err)
	}
	defer rows.Close()

	var results []engine.TestResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("results: scanning row: %w", err)
		}
		var result engine.TestResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("results: decoding result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Delete removes an archived result by result id.
func (s *Store) Delete(resultID string) error {
	res, err := s.db.Exec("DELETE FROM results WHERE id = ?", resultID)
	if err != nil {
		return fmt.Errorf("results: deleting result %q: %w", resultID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("results: deleting result %q: %w", resultID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", engine.ErrResultNotFound, resultID)
	}
	return nil
}
