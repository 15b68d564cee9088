package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

// PlaylistRepository stores the history of playlists saved to the catalog.
type PlaylistRepository struct {
	db *sql.DB
}

func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a history row. A missing id or timestamp is filled in.
func (r *PlaylistRepository) Create(p *models.SavedPlaylist) error {
	if p.ID == "" {
		p.ID = shared.GenerateID()
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO playlists (id, spotify_id, title, description, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.SpotifyID, p.Title, p.Description, p.TrackCount, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert playlist %s: %v", shared.ErrDatabase, p.Title, err)
	}

	return nil
}

// Get fetches one history row by local id.
func (r *PlaylistRepository) Get(id string) (*models.SavedPlaylist, error) {
	row := r.db.QueryRow(`
		SELECT id, spotify_id, title, description, track_count, created_at
		FROM playlists WHERE id = ?`, id)

	return scanPlaylist(row.Scan)
}

// List returns history rows, newest first. A non-positive limit lists all.
func (r *PlaylistRepository) List(limit int) ([]*models.SavedPlaylist, error) {
	query := `
		SELECT id, spotify_id, title, description, track_count, created_at
		FROM playlists ORDER BY created_at DESC`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(query)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: list playlists: %v", shared.ErrDatabase, err)
	}
	defer rows.Close()

	var playlists []*models.SavedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list playlists: %v", shared.ErrDatabase, err)
	}

	return playlists, nil
}

// Delete removes one history row. Deleting an unknown id is not an error.
func (r *PlaylistRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete playlist %s: %v", shared.ErrDatabase, id, err)
	}

	return nil
}

func scanPlaylist(scan func(dest ...any) error) (*models.SavedPlaylist, error) {
	var p models.SavedPlaylist

	err := scan(&p.ID, &p.SpotifyID, &p.Title, &p.Description, &p.TrackCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: playlist", shared.ErrNotFound)
		}

		return nil, fmt.Errorf("%w: scan playlist: %v", shared.ErrDatabase, err)
	}

	return &p, nil
}
