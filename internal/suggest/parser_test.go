package suggest

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/songalchemy/internal/shared"
)

const wellFormed = `{
  "playlist_title": "Night Drive",
  "description": "Synths for empty highways",
  "suggested_tracks": [
    {"trackName": "Midnight City", "artistName": "M83"},
    {"trackName": "Nightcall", "artistName": "Kavinsky"}
  ]
}`

func TestParseTracks(t *testing.T) {
	t.Run("clean payload", func(t *testing.T) {
		payload, err := parseTracks(wellFormed)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if payload.PlaylistTitle != "Night Drive" {
			t.Errorf("title = %q", payload.PlaylistTitle)
		}

		if len(payload.SuggestedTracks) != 2 || payload.SuggestedTracks[1].ArtistName != "Kavinsky" {
			t.Errorf("tracks = %+v", payload.SuggestedTracks)
		}
	})

	t.Run("code fences and surrounding prose are stripped", func(t *testing.T) {
		wrapped := "Sure! Here is your playlist:\n```json\n" + wellFormed + "\n```\nEnjoy!"

		payload, err := parseTracks(wrapped)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if len(payload.SuggestedTracks) != 2 {
			t.Errorf("tracks = %+v", payload.SuggestedTracks)
		}
	})

	t.Run("typographic quotes and invisible characters are normalized", func(t *testing.T) {
		noisy := "\uFEFF{\n  \u201Cplaylist_title\u201D: \u201CNight\u200B Drive\u201D,\n  \"description\": \"d\",\n  \"suggested_tracks\": [\n    {\"trackName\": \"Midnight City\", \"artistName\": \"M83\"}\n  ]\n}"

		payload, err := parseTracks(noisy)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if payload.PlaylistTitle != "Night Drive" {
			t.Errorf("title = %q", payload.PlaylistTitle)
		}
	})

	t.Run("trailing commas are repaired", func(t *testing.T) {
		broken := `{
  "playlist_title": "T",
  "description": "D",
  "suggested_tracks": [
    {"trackName": "A", "artistName": "B"},
  ],
}`

		payload, err := parseTracks(broken)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if len(payload.SuggestedTracks) != 1 {
			t.Errorf("tracks = %+v", payload.SuggestedTracks)
		}
	})

	t.Run("missing commas between array items are repaired", func(t *testing.T) {
		broken := `{
  "suggested_tracks": [
    {"trackName": "A", "artistName": "B"}
    {"trackName": "C", "artistName": "D"}
  ]
}`

		payload, err := parseTracks(broken)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if len(payload.SuggestedTracks) != 2 || payload.SuggestedTracks[1].TrackName != "C" {
			t.Errorf("tracks = %+v", payload.SuggestedTracks)
		}
	})

	t.Run("regex fallback recovers pairs from unrepairable text", func(t *testing.T) {
		mangled := `The playlist { "playlist_title": "Rescued", is as follows:
"trackName": "First Song", "artistName": "First Artist" and then
"trackName": "Second Song", "artistName": "Second Artist" }`

		payload, err := parseTracks(mangled)
		if err != nil {
			t.Fatalf("parseTracks: %v", err)
		}

		if payload.PlaylistTitle != "Rescued" {
			t.Errorf("title = %q", payload.PlaylistTitle)
		}

		if len(payload.SuggestedTracks) != 2 || payload.SuggestedTracks[0].TrackName != "First Song" {
			t.Errorf("tracks = %+v", payload.SuggestedTracks)
		}
	})

	t.Run("text without braces or pairs fails to parse", func(t *testing.T) {
		_, err := parseTracks("I could not think of any songs today, sorry.")
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}
	})

	t.Run("valid JSON without suggested_tracks fails to parse", func(t *testing.T) {
		_, err := parseTracks(`{"playlist_title": "T", "description": "D"}`)
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}
	})

	t.Run("suggested_tracks as a non-array fails to parse", func(t *testing.T) {
		_, err := parseTracks(`{"suggested_tracks": "lots of songs"}`)
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}
	})

	t.Run("parse failures carry the cleaned text", func(t *testing.T) {
		_, err := parseTracks("Here you go!\n```json\n{\"oops\": 1}\n```\nEnjoy!")
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}

		if !strings.Contains(err.Error(), `{"oops": 1}`) {
			t.Errorf("error missing cleaned payload: %v", err)
		}

		if strings.Contains(err.Error(), "Here you go") {
			t.Errorf("error carries the unstripped input: %v", err)
		}
	})

	t.Run("parse failures without braces fall back to the raw text", func(t *testing.T) {
		_, err := parseTracks("I could not think of any songs today, sorry.")
		if err == nil || !strings.Contains(err.Error(), "could not think of any songs") {
			t.Errorf("error missing raw input: %v", err)
		}
	})
}

func TestCleanPayloadIdempotent(t *testing.T) {
	inputs := []string{
		wellFormed,
		"```json\n" + wellFormed + "\n```",
		"noise before {\"suggested_tracks\": []} noise after",
		`{"suggested_tracks": [{"trackName": "A", "artistName": "B"},]}`,
	}

	for _, input := range inputs {
		once := cleanPayload(input)
		twice := cleanPayload(once)

		if once != twice {
			t.Errorf("cleanPayload not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestParsePodcasts(t *testing.T) {
	t.Run("clean payload", func(t *testing.T) {
		payload, err := parsePodcasts(`{
  "playlist_title": "Deep Dives",
  "description": "Long listens",
  "suggested_podcasts": [
    {"podcastName": "Radiolab", "description": "Science storytelling"}
  ]
}`)
		if err != nil {
			t.Fatalf("parsePodcasts: %v", err)
		}

		if len(payload.SuggestedPodcasts) != 1 || payload.SuggestedPodcasts[0].PodcastName != "Radiolab" {
			t.Errorf("podcasts = %+v", payload.SuggestedPodcasts)
		}
	})

	t.Run("regex fallback", func(t *testing.T) {
		payload, err := parsePodcasts(`broken { "podcastName": "Radiolab", "description": "Science" oops`)
		if err != nil {
			t.Fatalf("parsePodcasts: %v", err)
		}

		if len(payload.SuggestedPodcasts) != 1 {
			t.Errorf("podcasts = %+v", payload.SuggestedPodcasts)
		}
	})

	t.Run("missing suggested_podcasts fails", func(t *testing.T) {
		_, err := parsePodcasts(`{"playlist_title": "T"}`)
		if !errors.Is(err, shared.ErrSuggestionParse) {
			t.Fatalf("expected ErrSuggestionParse, got %v", err)
		}
	})
}
