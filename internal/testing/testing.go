// package testing provides shared test doubles and helpers.
package testing

import (
	"context"
	"net/http"

	"github.com/desertthunder/songalchemy/internal/models"
)

// MockCatalog implements services.Catalog with overridable functions. Methods
// without an override return zero values.
type MockCatalog struct {
	CurrentUserFunc    func(ctx context.Context) (*models.UserProfile, error)
	SearchTracksFunc   func(ctx context.Context, query string, limit int) ([]models.Track, error)
	SearchArtistsFunc  func(ctx context.Context, query string, limit int) ([]models.Artist, error)
	SearchShowsFunc    func(ctx context.Context, query string, limit int) ([]models.Show, error)
	TopTracksFunc      func(ctx context.Context, limit int, timeRange string) ([]models.Track, error)
	TopArtistsFunc     func(ctx context.Context, limit int, timeRange string) ([]models.Artist, error)
	UserPlaylistsFunc  func(ctx context.Context, limit int) ([]models.PlaylistSummary, error)
	PlaylistTracksFunc func(ctx context.Context, playlistID string, limit int) ([]models.Track, error)
	CreatePlaylistFunc func(ctx context.Context, userID, name, description string) (string, error)
	AddTracksFunc      func(ctx context.Context, playlistID string, uris []string) error
	DeletePlaylistFunc func(ctx context.Context, playlistID string) error
	ShowEpisodesFunc   func(ctx context.Context, showID string, limit int) ([]models.Episode, error)
	FollowShowsFunc    func(ctx context.Context, showIDs []string) error
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.UserProfile{ID: "mock-user"}, nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	if m.SearchArtistsFunc != nil {
		return m.SearchArtistsFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) SearchShows(ctx context.Context, query string, limit int) ([]models.Show, error) {
	if m.SearchShowsFunc != nil {
		return m.SearchShowsFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error) {
	if m.TopTracksFunc != nil {
		return m.TopTracksFunc(ctx, limit, timeRange)
	}
	return nil, nil
}

func (m *MockCatalog) TopArtists(ctx context.Context, limit int, timeRange string) ([]models.Artist, error) {
	if m.TopArtistsFunc != nil {
		return m.TopArtistsFunc(ctx, limit, timeRange)
	}
	return nil, nil
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, limit int) ([]models.PlaylistSummary, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID, limit)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, userID, name, description string) (string, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, userID, name, description)
	}
	return "mock-playlist", nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, uris)
	}
	return nil
}

func (m *MockCatalog) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.DeletePlaylistFunc != nil {
		return m.DeletePlaylistFunc(ctx, playlistID)
	}
	return nil
}

func (m *MockCatalog) ShowEpisodes(ctx context.Context, showID string, limit int) ([]models.Episode, error) {
	if m.ShowEpisodesFunc != nil {
		return m.ShowEpisodesFunc(ctx, showID, limit)
	}
	return nil, nil
}

func (m *MockCatalog) FollowShows(ctx context.Context, showIDs []string) error {
	if m.FollowShowsFunc != nil {
		return m.FollowShowsFunc(ctx, showIDs)
	}
	return nil
}

// MockBackend implements suggest.Backend from canned responses.
type MockBackend struct {
	BackendName string
	ReadyErr    error
	Response    string
	Err         error
	Calls       int
}

func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

func (m *MockBackend) Ready() error {
	return m.ReadyErr
}

func (m *MockBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockRoundTripper routes http.Client traffic through a function.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// StaticTokens implements services.TokenProvider with a fixed token and a
// record of invalidations.
type StaticTokens struct {
	Token   models.Token
	Present bool
	Cleared int
}

func (s *StaticTokens) CurrentToken() (models.Token, bool) {
	return s.Token, s.Present
}

func (s *StaticTokens) ClearToken() error {
	s.Cleared++
	s.Present = false
	return nil
}
