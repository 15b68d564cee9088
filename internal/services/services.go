// package services defines the catalog client and its wire types.
package services

import (
	"context"

	"github.com/desertthunder/songalchemy/internal/models"
)

// TokenProvider supplies the current access token and handles forced
// invalidation when the catalog rejects it.
type TokenProvider interface {
	CurrentToken() (models.Token, bool)
	ClearToken() error
}

// Catalog is typed access to the streaming catalog's web API. Every method
// requires an authenticated token; zero search matches yield an empty slice,
// not an error.
type Catalog interface {
	CurrentUser(ctx context.Context) (*models.UserProfile, error)

	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)
	SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error)
	SearchShows(ctx context.Context, query string, limit int) ([]models.Show, error)

	TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error)
	TopArtists(ctx context.Context, limit int, timeRange string) ([]models.Artist, error)
	UserPlaylists(ctx context.Context, limit int) ([]models.PlaylistSummary, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error)

	CreatePlaylist(ctx context.Context, userID, name, description string) (string, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) error
	DeletePlaylist(ctx context.Context, playlistID string) error

	ShowEpisodes(ctx context.Context, showID string, limit int) ([]models.Episode, error)
	FollowShows(ctx context.Context, showIDs []string) error
}
