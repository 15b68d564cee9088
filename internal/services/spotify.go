package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

const spotifyAPIURL = "https://api.spotify.com/v1"

// SpotifyService implements Catalog against the Spotify Web API.
type SpotifyService struct {
	baseURL string
	client  *http.Client
	tokens  TokenProvider
	logger  *log.Logger
}

// NewSpotifyService builds a catalog client. An empty baseURL selects the
// production API; a nil client gets a 30s-timeout default.
func NewSpotifyService(baseURL string, client *http.Client, tokens TokenProvider, logger *log.Logger) *SpotifyService {
	if baseURL == "" {
		baseURL = spotifyAPIURL
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyService{baseURL: baseURL, client: client, tokens: tokens, logger: logger}
}

// Wire types. Only the fields the application reads are declared.

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Images      []spotifyImage `json:"images"`
	Followers   struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type spotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []spotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

type spotifyShow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Publisher   string         `json:"publisher"`
	Description string         `json:"description"`
	Images      []spotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

type spotifyEpisode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date"`
}

type spotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type trackPage struct {
	Items []spotifyTrack `json:"items"`
}

type artistPage struct {
	Items []spotifyArtist `json:"items"`
}

type showPage struct {
	Items []spotifyShow `json:"items"`
}

func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user, false); err != nil {
		return nil, err
	}

	if user.ID == "" {
		return nil, malformed("/me")
	}

	profile := models.UserProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Followers:   user.Followers.Total,
	}

	if len(user.Images) > 0 {
		profile.ArtworkURL = user.Images[0].URL
	}

	return &profile, nil
}

func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	var resp struct {
		Tracks *trackPage `json:"tracks"`
	}

	endpoint := searchEndpoint(query, "track", limit)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &resp, false); err != nil {
		return nil, err
	}

	if resp.Tracks == nil {
		return nil, malformed(endpoint)
	}

	return convertTracks(resp.Tracks.Items), nil
}

func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	var resp struct {
		Artists *artistPage `json:"artists"`
	}

	endpoint := searchEndpoint(query, "artist", limit)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &resp, false); err != nil {
		return nil, err
	}

	if resp.Artists == nil {
		return nil, malformed(endpoint)
	}

	return convertArtists(resp.Artists.Items), nil
}

func (s *SpotifyService) SearchShows(ctx context.Context, query string, limit int) ([]models.Show, error) {
	var resp struct {
		Shows *showPage `json:"shows"`
	}

	endpoint := searchEndpoint(query, "show", limit)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &resp, false); err != nil {
		return nil, err
	}

	if resp.Shows == nil {
		return nil, malformed(endpoint)
	}

	shows := make([]models.Show, 0, len(resp.Shows.Items))
	for _, item := range resp.Shows.Items {
		shows = append(shows, convertShow(item))
	}

	return shows, nil
}

// TopTracks lists the user's most played tracks. timeRange is one of
// short_term, medium_term, long_term.
func (s *SpotifyService) TopTracks(ctx context.Context, limit int, timeRange string) ([]models.Track, error) {
	var page trackPage

	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s", clampLimit(limit), timeRangeOrDefault(timeRange))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page, true); err != nil {
		return nil, err
	}

	if page.Items == nil {
		return nil, malformed(endpoint)
	}

	return convertTracks(page.Items), nil
}

func (s *SpotifyService) TopArtists(ctx context.Context, limit int, timeRange string) ([]models.Artist, error) {
	var page artistPage

	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=%s", clampLimit(limit), timeRangeOrDefault(timeRange))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page, true); err != nil {
		return nil, err
	}

	if page.Items == nil {
		return nil, malformed(endpoint)
	}

	return convertArtists(page.Items), nil
}

func (s *SpotifyService) UserPlaylists(ctx context.Context, limit int) ([]models.PlaylistSummary, error) {
	var page struct {
		Items []spotifyPlaylist `json:"items"`
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d", clampLimit(limit))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page, true); err != nil {
		return nil, err
	}

	if page.Items == nil {
		return nil, malformed(endpoint)
	}

	playlists := make([]models.PlaylistSummary, 0, len(page.Items))
	for _, item := range page.Items {
		playlists = append(playlists, models.PlaylistSummary{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			TrackCount:  item.Tracks.Total,
			Public:      item.Public,
		})
	}

	return playlists, nil
}

// PlaylistTracks lists a playlist's tracks. Entries whose track is null
// (removed or region-blocked items) are skipped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	var page struct {
		Items []struct {
			Track *spotifyTrack `json:"track"`
		} `json:"items"`
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", playlistID, clampLimit(limit))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page, false); err != nil {
		return nil, err
	}

	if page.Items == nil {
		return nil, malformed(endpoint)
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track == nil {
			continue
		}
		tracks = append(tracks, convertTrack(*item.Track))
	}

	return tracks, nil
}

// CreatePlaylist creates a private playlist for the user and returns its
// catalog id.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string) (string, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var created struct {
		ID string `json:"id"`
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", userID)
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created, false); err != nil {
		return "", err
	}

	if created.ID == "" {
		return "", malformed(endpoint)
	}

	return created.ID, nil
}

func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil, false)
}

// DeletePlaylist removes the playlist from the user's library. Spotify models
// this as unfollowing.
func (s *SpotifyService) DeletePlaylist(ctx context.Context, playlistID string) error {
	endpoint := fmt.Sprintf("/playlists/%s/followers", playlistID)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, false)
}

func (s *SpotifyService) ShowEpisodes(ctx context.Context, showID string, limit int) ([]models.Episode, error) {
	var page struct {
		Items []spotifyEpisode `json:"items"`
	}

	endpoint := fmt.Sprintf("/shows/%s/episodes?limit=%d", showID, clampLimit(limit))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page, false); err != nil {
		return nil, err
	}

	if page.Items == nil {
		return nil, malformed(endpoint)
	}

	episodes := make([]models.Episode, 0, len(page.Items))
	for _, item := range page.Items {
		episodes = append(episodes, models.Episode{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			DurationMS:  item.DurationMS,
			ReleaseDate: item.ReleaseDate,
		})
	}

	return episodes, nil
}

// FollowShows saves the given shows to the user's library.
func (s *SpotifyService) FollowShows(ctx context.Context, showIDs []string) error {
	if len(showIDs) == 0 {
		return nil
	}

	endpoint := "/me/shows?ids=" + url.QueryEscape(strings.Join(showIDs, ","))
	return s.doRequest(ctx, http.MethodPut, endpoint, nil, nil, false)
}

// doRequest performs an authenticated API call and applies the uniform
// response policy: 401 invalidates the token, 403 maps to permission denied
// (invalidating the token only for elevated-scope endpoints), 404 maps to not
// found, and any other non-2xx carries status and body. A 2xx body that fails
// to decode is reported as a malformed response.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any, elevated bool) error {
	token, ok := s.tokens.CurrentToken()
	if !ok {
		return fmt.Errorf("%w: no valid access token, run login first", shared.ErrNotAuthenticated)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request body: %v", shared.ErrCatalogRequest, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrCatalogRequest, method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if clearErr := s.tokens.ClearToken(); clearErr != nil {
			s.logger.Error("failed to clear rejected token", "error", clearErr)
		}
		return fmt.Errorf("%w: log in again", shared.ErrTokenExpired)

	case resp.StatusCode == http.StatusForbidden:
		if elevated {
			if clearErr := s.tokens.ClearToken(); clearErr != nil {
				s.logger.Error("failed to clear rejected token", "error", clearErr)
			}
		}
		return fmt.Errorf("%w: %s requires additional permissions, re-authenticate to grant them", shared.ErrPermissionDenied, endpoint)

	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: %s %s returned %d: %s",
			shared.ErrCatalogRequest, method, endpoint, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", shared.ErrCatalogRequest, endpoint, err)
	}

	return nil
}

func malformed(endpoint string) error {
	return fmt.Errorf("%w: malformed response from %s", shared.ErrCatalogRequest, endpoint)
}

func searchEndpoint(query, kind string, limit int) string {
	return fmt.Sprintf("/search?q=%s&type=%s&limit=%d", url.QueryEscape(query), kind, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}

	if limit > 50 {
		return 50
	}

	return limit
}

func timeRangeOrDefault(timeRange string) string {
	switch timeRange {
	case "short_term", "medium_term", "long_term":
		return timeRange
	default:
		return "medium_term"
	}
}

func convertTrack(t spotifyTrack) models.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	track := models.Track{
		ID:      t.ID,
		Name:    t.Name,
		Artists: artists,
		Album:   t.Album.Name,
		URI:     t.URI,
	}

	if len(t.Album.Images) > 0 {
		track.ArtworkURL = t.Album.Images[0].URL
	}

	return track
}

func convertTracks(items []spotifyTrack) []models.Track {
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, convertTrack(item))
	}

	return tracks
}

func convertArtists(items []spotifyArtist) []models.Artist {
	artists := make([]models.Artist, 0, len(items))
	for _, item := range items {
		artist := models.Artist{
			ID:     item.ID,
			Name:   item.Name,
			Genres: item.Genres,
			URI:    item.URI,
		}

		if len(item.Images) > 0 {
			artist.ArtworkURL = item.Images[0].URL
		}

		artists = append(artists, artist)
	}

	return artists
}

func convertShow(item spotifyShow) models.Show {
	show := models.Show{
		ID:          item.ID,
		Name:        item.Name,
		Publisher:   item.Publisher,
		Description: item.Description,
		URI:         item.URI,
	}

	if len(item.Images) > 0 {
		show.ArtworkURL = item.Images[0].URL
	}

	return show
}
