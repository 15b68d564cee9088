package suggest

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songalchemy/internal/models"
)

// Fallback metadata used when the model omits a title or description.
const (
	FallbackTitle       = "AI Generated Playlist"
	FallbackDescription = "Created with AI based on your prompt"

	FallbackPodcastTitle       = "AI Podcast Picks"
	FallbackPodcastDescription = "Podcast recommendations based on your prompt"
)

// overSuggest is how many extra tracks to request beyond the playlist size,
// giving the resolver slack for suggestions the catalog cannot match.
const overSuggest = 3

// buildTrackPrompt assembles the curator system prompt for track suggestions.
func buildTrackPrompt(count int, vibeReference string, tuning *models.Tuning) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a music curator with deep knowledge of every genre and era. ")
	fmt.Fprintf(&b, "Suggest exactly %d songs matching the user's request.\n\n", count+overSuggest)

	b.WriteString("Rules:\n")
	b.WriteString("- Every song must be unique. Never suggest the same track twice, and avoid multiple versions (live, remix, remaster) of one song.\n")
	b.WriteString("- Spread suggestions across different artists unless the request names a specific artist.\n")
	b.WriteString("- Only suggest real songs that exist in streaming catalogs, with exact track and artist names.\n")
	b.WriteString("- Avoid overly popular or common songs unless they are a perfect fit. Seek out hidden gems and deeper cuts.\n")

	if vibeReference != "" {
		fmt.Fprintf(&b, "- Match the overall vibe and feel of: %s\n", vibeReference)
	}

	if tuning != nil {
		b.WriteString("\nCRITICAL: every suggestion MUST match this audio profile. ")
		b.WriteString("All five constraints apply together, are non-negotiable, and take absolute priority over the rules above (each value is 0 to 1):\n")
		fmt.Fprintf(&b, "- Acoustic: %.2f. %s\n", tuning.Acoustic,
			banding(tuning.Acoustic, "favor acoustic, organic instrumentation", "favor electronic and heavily produced sounds"))
		fmt.Fprintf(&b, "- Energetic: %.2f. %s\n", tuning.Energetic,
			banding(tuning.Energetic, "favor calm, low-intensity tracks", "favor fast, loud, high-intensity tracks"))
		fmt.Fprintf(&b, "- Happy: %.2f. %s\n", tuning.Happy,
			banding(tuning.Happy, "favor melancholic or dark moods", "favor cheerful, euphoric moods"))
		fmt.Fprintf(&b, "- Danceable: %.2f. %s\n", tuning.Danceable,
			banding(tuning.Danceable, "favor free-form rhythms not meant for dancing", "favor strong steady beats made for dancing"))
		fmt.Fprintf(&b, "- Popular: %.2f. %s\n", tuning.Popular,
			banding(tuning.Popular, "favor deep cuts and lesser-known artists", "favor mainstream hits"))
	}

	b.WriteString("\nRespond with ONLY valid JSON in exactly this format:\n")
	b.WriteString(`{
  "playlist_title": "A creative playlist title",
  "description": "A one-sentence description of the playlist",
  "suggested_tracks": [
    {"trackName": "Song Name", "artistName": "Artist Name"}
  ]
}`)

	return b.String()
}

// buildPodcastPrompt assembles the system prompt for podcast suggestions.
// Podcasts are not over-suggested; the user gets exactly what they asked for.
func buildPodcastPrompt(count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a podcast expert across every topic and format. ")
	fmt.Fprintf(&b, "Suggest exactly %d podcasts matching the user's request.\n\n", count)

	b.WriteString("Rules:\n")
	b.WriteString("- Every podcast must be unique and currently available on major platforms.\n")
	b.WriteString("- Use the exact show name as it appears in podcast directories.\n")

	b.WriteString("\nRespond with ONLY valid JSON in exactly this format:\n")
	b.WriteString(`{
  "playlist_title": "A short title for this set of picks",
  "description": "A one-sentence description of the picks",
  "suggested_podcasts": [
    {"podcastName": "Show Name", "description": "Why this show fits"}
  ]
}`)

	return b.String()
}

// banding renders the low/high guidance for a tuning axis. Values between the
// bands get neutral wording.
func banding(value float64, low, high string) string {
	switch {
	case value < 0.3:
		return "Strongly " + low + "."
	case value > 0.7:
		return "Strongly " + high + "."
	default:
		return "Balance both ends of this axis."
	}
}
