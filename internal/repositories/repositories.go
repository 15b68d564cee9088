// package repositories provides sqlite-backed persistence for local
// application records.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/songalchemy/internal/shared"
)

const playlistSchema = `
CREATE TABLE IF NOT EXISTS playlists (
	id TEXT PRIMARY KEY,
	spotify_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	track_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`

// Migrate creates the repository tables when they do not exist.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(playlistSchema); err != nil {
		return fmt.Errorf("%w: create playlists table: %v", shared.ErrDatabase, err)
	}

	return nil
}
