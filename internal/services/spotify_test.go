package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
	mocks "github.com/desertthunder/songalchemy/internal/testing"
)

func liveTokens() *mocks.StaticTokens {
	return &mocks.StaticTokens{
		Token: models.Token{
			AccessToken: "token-123",
			ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
		},
		Present: true,
	}
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*SpotifyService, *mocks.StaticTokens) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tokens := liveTokens()

	return NewSpotifyService(ts.URL, ts.Client(), tokens, nil), tokens
}

func TestSearchTracks(t *testing.T) {
	t.Run("maps the wire shape", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
				t.Errorf("Authorization = %q", got)
			}

			if got := r.URL.Query().Get("type"); got != "track" {
				t.Errorf("type = %q", got)
			}

			w.Write([]byte(`{"tracks":{"items":[
				{"id":"t1","name":"Song One","uri":"spotify:track:t1",
				 "artists":[{"name":"Artist A"},{"name":"Artist B"}],
				 "album":{"name":"Album","images":[{"url":"http://img"}]}}
			]}}`))
		})

		tracks, err := svc.SearchTracks(context.Background(), "song one artist a", 1)
		if err != nil {
			t.Fatalf("SearchTracks: %v", err)
		}

		if len(tracks) != 1 {
			t.Fatalf("got %d tracks", len(tracks))
		}

		track := tracks[0]
		if track.ID != "t1" || track.Name != "Song One" || track.Album != "Album" {
			t.Errorf("track = %+v", track)
		}

		if len(track.Artists) != 2 || track.Artists[0] != "Artist A" {
			t.Errorf("artists = %v", track.Artists)
		}

		if track.ArtworkURL != "http://img" {
			t.Errorf("artwork = %q", track.ArtworkURL)
		}
	})

	t.Run("zero matches is an empty slice", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tracks":{"items":[]}}`))
		})

		tracks, err := svc.SearchTracks(context.Background(), "nothing", 1)
		if err != nil {
			t.Fatalf("SearchTracks: %v", err)
		}

		if len(tracks) != 0 {
			t.Errorf("got %d tracks", len(tracks))
		}
	})

	t.Run("missing tracks field is a malformed response", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unexpected":true}`))
		})

		_, err := svc.SearchTracks(context.Background(), "x", 1)
		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Fatalf("expected ErrCatalogRequest, got %v", err)
		}

		if !strings.Contains(err.Error(), "malformed response") {
			t.Errorf("error missing malformed marker: %v", err)
		}
	})
}

func TestResponsePolicy(t *testing.T) {
	t.Run("without a token no request is made", func(t *testing.T) {
		called := false
		svc, tokens := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		tokens.Present = false

		_, err := svc.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}

		if called {
			t.Error("request was sent without a token")
		}
	})

	t.Run("401 clears the token", func(t *testing.T) {
		svc, tokens := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := svc.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}

		if tokens.Cleared != 1 {
			t.Errorf("token cleared %d times", tokens.Cleared)
		}
	})

	t.Run("403 on a personalization listing clears the token", func(t *testing.T) {
		svc, tokens := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := svc.TopTracks(context.Background(), 10, "medium_term")
		if !errors.Is(err, shared.ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}

		if tokens.Cleared != 1 {
			t.Errorf("token cleared %d times", tokens.Cleared)
		}
	})

	t.Run("403 elsewhere keeps the token", func(t *testing.T) {
		svc, tokens := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		err := svc.DeletePlaylist(context.Background(), "pl1")
		if !errors.Is(err, shared.ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}

		if tokens.Cleared != 0 {
			t.Errorf("token cleared %d times", tokens.Cleared)
		}
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.PlaylistTracks(context.Background(), "missing", 10)
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("other failures carry status and body", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":{"message":"upstream broke"}}`))
		})

		_, err := svc.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Fatalf("expected ErrCatalogRequest, got %v", err)
		}

		if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream broke") {
			t.Errorf("error missing detail: %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}

		if !strings.HasSuffix(r.URL.Path, "/users/user-1/playlists") {
			t.Errorf("path = %s", r.URL.Path)
		}

		var body struct {
			Name   string `json:"name"`
			Public bool   `json:"public"`
		}

		if err := decodeBody(r, &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}

		if body.Name != "Test Mix" || body.Public {
			t.Errorf("body = %+v", body)
		}

		w.Write([]byte(`{"id":"pl-new"}`))
	})

	id, err := svc.CreatePlaylist(context.Background(), "user-1", "Test Mix", "desc")
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	if id != "pl-new" {
		t.Errorf("id = %q", id)
	}
}

func TestPlaylistTracks(t *testing.T) {
	t.Run("null track entries are skipped", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[
				{"track":{"id":"t1","name":"Kept","uri":"spotify:track:t1","artists":[],"album":{"name":""}}},
				{"track":null},
				{"track":{"id":"t2","name":"Also Kept","uri":"spotify:track:t2","artists":[],"album":{"name":""}}}
			]}`))
		})

		tracks, err := svc.PlaylistTracks(context.Background(), "pl1", 10)
		if err != nil {
			t.Fatalf("PlaylistTracks: %v", err)
		}

		if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "t2" {
			t.Errorf("tracks = %+v", tracks)
		}
	})
}

func TestFollowShows(t *testing.T) {
	t.Run("sends all ids in one call", func(t *testing.T) {
		var gotIDs string

		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("method = %s", r.Method)
			}

			gotIDs = r.URL.Query().Get("ids")
		})

		if err := svc.FollowShows(context.Background(), []string{"s1", "s2"}); err != nil {
			t.Fatalf("FollowShows: %v", err)
		}

		if gotIDs != "s1,s2" {
			t.Errorf("ids = %q", gotIDs)
		}
	})

	t.Run("no ids is a no-op", func(t *testing.T) {
		called := false

		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		if err := svc.FollowShows(context.Background(), nil); err != nil {
			t.Fatalf("FollowShows: %v", err)
		}

		if called {
			t.Error("request sent for empty id list")
		}
	})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
