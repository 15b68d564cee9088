package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songalchemy/internal/shared"
)

const credentialsSchema = `
CREATE TABLE IF NOT EXISTS credentials (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore is the durable Store, backed by a credentials table in the
// application database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps the given database and ensures the credentials table
// exists.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(credentialsSchema); err != nil {
		return nil, fmt.Errorf("%w: create credentials table: %v", shared.ErrDatabase, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, error) {
	var value string

	row := s.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%w: get %s: %v", shared.ErrDatabase, key, err)
	}

	return value, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", shared.ErrDatabase, key, err)
	}

	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", shared.ErrDatabase, key, err)
	}

	return nil
}
