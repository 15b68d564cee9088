// package models defines the domain types shared across packages.
package models

import "time"

// Token is a persisted catalog access token. ExpiresAt is unix epoch
// milliseconds, matching the wire lifetime (expires_in seconds from now).
type Token struct {
	AccessToken  string `json:"access_token"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Valid reports whether the token exists and has not expired at the given
// instant. A token expiring exactly now is already invalid.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.UnixMilli() < t.ExpiresAt
}

// SuggestedTrack is a single model-proposed track, prior to catalog
// resolution.
type SuggestedTrack struct {
	TrackName  string `json:"trackName"`
	ArtistName string `json:"artistName"`
}

// SuggestedPodcast is a single model-proposed podcast.
type SuggestedPodcast struct {
	PodcastName string `json:"podcastName"`
	Description string `json:"description"`
}

// Suggestions is the parsed output of a track suggestion request.
type Suggestions struct {
	Title       string
	Description string
	Tracks      []SuggestedTrack
}

// PodcastSuggestions is the parsed output of a podcast suggestion request.
type PodcastSuggestions struct {
	Title       string
	Description string
	Podcasts    []SuggestedPodcast
}

// Tuning holds the five audio-profile axes, each in [0, 1].
type Tuning struct {
	Acoustic  float64 `json:"acoustic"`
	Energetic float64 `json:"energetic"`
	Happy     float64 `json:"happy"`
	Danceable float64 `json:"danceable"`
	Popular   float64 `json:"popular"`
}

// Track is a catalog-resolved track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	ArtworkURL string   `json:"artwork_url,omitempty"`
	URI        string   `json:"uri"`
}

// Artist is a catalog artist entry.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	ArtworkURL string   `json:"artwork_url,omitempty"`
	URI        string   `json:"uri"`
}

// Show is a catalog podcast show.
type Show struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	Description string `json:"description,omitempty"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
	URI         string `json:"uri"`
}

// Episode is a single episode of a show.
type Episode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DurationMS  int    `json:"duration_ms"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// UserProfile is the authenticated catalog user.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Followers   int    `json:"followers"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
}

// PlaylistSummary is a playlist listing entry from the catalog.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// Playlist is a generated, not-yet-saved playlist.
type Playlist struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// SavedPlaylist is a local history row recording a playlist persisted to the
// catalog.
type SavedPlaylist struct {
	ID          string    `json:"id"`
	SpotifyID   string    `json:"spotify_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TrackCount  int       `json:"track_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// URL returns the public share link for the saved playlist.
func (p SavedPlaylist) URL() string {
	return "https://open.spotify.com/playlist/" + p.SpotifyID
}
