package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
	mocks "github.com/desertthunder/songalchemy/internal/testing"
)

func TestSuggestTracks(t *testing.T) {
	t.Run("blank prompt is rejected before the backend is called", func(t *testing.T) {
		backend := &mocks.MockBackend{Response: wellFormed}
		client := NewClient(backend, nil)

		_, err := client.SuggestTracks(context.Background(), TrackRequest{Prompt: "   ", Count: 10})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		if backend.Calls != 0 {
			t.Errorf("backend called %d times", backend.Calls)
		}
	})

	t.Run("backend errors propagate", func(t *testing.T) {
		wantErr := fmt.Errorf("%w: boom", shared.ErrBackendRequest)
		client := NewClient(&mocks.MockBackend{Err: wantErr}, nil)

		_, err := client.SuggestTracks(context.Background(), TrackRequest{Prompt: "road trip", Count: 10})
		if !errors.Is(err, shared.ErrBackendRequest) {
			t.Fatalf("expected ErrBackendRequest, got %v", err)
		}
	})

	t.Run("parsed payload with fallbacks for missing metadata", func(t *testing.T) {
		client := NewClient(&mocks.MockBackend{
			Response: `{"suggested_tracks": [{"trackName": "A", "artistName": "B"}]}`,
		}, nil)

		result, err := client.SuggestTracks(context.Background(), TrackRequest{Prompt: "road trip", Count: 10})
		if err != nil {
			t.Fatalf("SuggestTracks: %v", err)
		}

		if result.Title != FallbackTitle || result.Description != FallbackDescription {
			t.Errorf("fallbacks not applied: %q / %q", result.Title, result.Description)
		}

		if len(result.Tracks) != 1 {
			t.Errorf("tracks = %+v", result.Tracks)
		}
	})

	t.Run("unparseable output is an error, not an empty result", func(t *testing.T) {
		client := NewClient(&mocks.MockBackend{Response: "no songs today"}, nil)

		_, err := client.SuggestTracks(context.Background(), TrackRequest{Prompt: "road trip", Count: 10})
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}
	})
}

func TestBuildTrackPrompt(t *testing.T) {
	t.Run("asks for extra tracks beyond the requested size", func(t *testing.T) {
		prompt := buildTrackPrompt(10, "", nil)

		if !strings.Contains(prompt, "exactly 13 songs") {
			t.Errorf("prompt missing oversuggest count:\n%s", prompt)
		}
	})

	t.Run("vibe reference is included when set", func(t *testing.T) {
		prompt := buildTrackPrompt(10, "Bohemian Rhapsody", nil)

		if !strings.Contains(prompt, "Bohemian Rhapsody") {
			t.Error("prompt missing vibe reference")
		}
	})

	t.Run("steers away from mainstream picks", func(t *testing.T) {
		prompt := buildTrackPrompt(10, "", nil)

		if !strings.Contains(prompt, "hidden gems") {
			t.Error("prompt missing the avoid-mainstream rule")
		}
	})

	t.Run("tuning bands switch on thresholds", func(t *testing.T) {
		tuning := &models.Tuning{Acoustic: 0.1, Energetic: 0.9, Happy: 0.5}
		prompt := buildTrackPrompt(10, "", tuning)

		if !strings.Contains(prompt, "Strongly favor acoustic") {
			t.Error("low acoustic band missing")
		}

		if !strings.Contains(prompt, "Strongly favor fast") {
			t.Error("high energy band missing")
		}

		if !strings.Contains(prompt, "Balance both ends") {
			t.Error("neutral band missing")
		}
	})

	t.Run("the acoustic axis runs acoustic to electronic", func(t *testing.T) {
		low := buildTrackPrompt(10, "", &models.Tuning{Acoustic: 0.1, Energetic: 0.5, Happy: 0.5, Danceable: 0.5, Popular: 0.5})
		high := buildTrackPrompt(10, "", &models.Tuning{Acoustic: 0.9, Energetic: 0.5, Happy: 0.5, Danceable: 0.5, Popular: 0.5})

		if strings.Contains(low, "favor electronic") {
			t.Error("low acoustic value should not lean electronic")
		}

		if !strings.Contains(high, "Strongly favor electronic") {
			t.Error("high acoustic value should lean electronic")
		}
	})

	t.Run("tuning is framed as a mandatory constraint", func(t *testing.T) {
		prompt := buildTrackPrompt(10, "", &models.Tuning{Happy: 0.5})

		if !strings.Contains(prompt, "CRITICAL") || !strings.Contains(prompt, "non-negotiable") {
			t.Errorf("tuning block is not mandatory:\n%s", prompt)
		}
	})
}

func TestOpenAIBackendReady(t *testing.T) {
	backend := NewOpenAIBackend("", "")

	if err := backend.Ready(); !errors.Is(err, shared.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	if _, err := backend.Generate(context.Background(), "s", "u"); !errors.Is(err, shared.ErrMissingAPIKey) {
		t.Fatalf("Generate without a key should fail, got %v", err)
	}
}

func TestGeminiBackend(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		backend := NewGeminiBackend("", "", "", nil)

		if err := backend.Ready(); !errors.Is(err, shared.ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("extracts candidate text", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.URL.Path, "gemini-2.5-flash-preview-05-20") {
				t.Errorf("path = %s", r.URL.Path)
			}

			if r.URL.Query().Get("key") != "key-123" {
				t.Errorf("key = %q", r.URL.Query().Get("key"))
			}

			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello from gemini"}]}}]}`))
		}))
		defer ts.Close()

		backend := NewGeminiBackend("key-123", "", ts.URL, ts.Client())

		text, err := backend.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		if text != "hello from gemini" {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("non-2xx carries status and body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"quota"}`))
		}))
		defer ts.Close()

		backend := NewGeminiBackend("key-123", "", ts.URL, ts.Client())

		_, err := backend.Generate(context.Background(), "system", "user")
		if !errors.Is(err, shared.ErrBackendRequest) {
			t.Fatalf("expected ErrBackendRequest, got %v", err)
		}

		if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota") {
			t.Errorf("error missing detail: %v", err)
		}
	})

	t.Run("missing candidates is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer ts.Close()

		backend := NewGeminiBackend("key-123", "", ts.URL, ts.Client())

		_, err := backend.Generate(context.Background(), "system", "user")
		if !errors.Is(err, shared.ErrBackendRequest) {
			t.Fatalf("expected ErrBackendRequest, got %v", err)
		}
	})
}

func TestSuggestPodcasts(t *testing.T) {
	client := NewClient(&mocks.MockBackend{
		Response: `{"suggested_podcasts": [{"podcastName": "Radiolab", "description": "Science"}]}`,
	}, nil)

	result, err := client.SuggestPodcasts(context.Background(), PodcastRequest{Prompt: "science shows", Count: 5})
	if err != nil {
		t.Fatalf("SuggestPodcasts: %v", err)
	}

	if result.Title != FallbackPodcastTitle {
		t.Errorf("title = %q", result.Title)
	}

	if len(result.Podcasts) != 1 || result.Podcasts[0].PodcastName != "Radiolab" {
		t.Errorf("podcasts = %+v", result.Podcasts)
	}
}
