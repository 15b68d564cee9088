package suggest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

// Model output is treated as hostile input: code fences, invisible unicode,
// prose around the JSON, and small structural mistakes are all repaired before
// parsing, with a regex extraction as the last resort.

type trackPayload struct {
	PlaylistTitle   string                  `json:"playlist_title"`
	Description     string                  `json:"description"`
	SuggestedTracks []models.SuggestedTrack `json:"suggested_tracks"`
}

type podcastPayload struct {
	PlaylistTitle     string                    `json:"playlist_title"`
	Description       string                    `json:"description"`
	SuggestedPodcasts []models.SuggestedPodcast `json:"suggested_podcasts"`
}

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	missedCommaRe   = regexp.MustCompile(`"(\s*\n\s*)"`)
	adjacentItemRe  = regexp.MustCompile(`}(\s*\n\s*){`)

	trackPairRe   = regexp.MustCompile(`"trackName"\s*:\s*"([^"]+)"\s*,\s*"artistName"\s*:\s*"([^"]+)"`)
	podcastPairRe = regexp.MustCompile(`"podcastName"\s*:\s*"([^"]+)"\s*,\s*"description"\s*:\s*"([^"]+)"`)
	titleRe       = regexp.MustCompile(`"playlist_title"\s*:\s*"([^"]+)"`)
	descriptionRe = regexp.MustCompile(`"description"\s*:\s*"([^"]+)"`)
)

// Invisible characters are dropped, typographic punctuation is normalized to
// ASCII, and line endings collapse to \n.
var normalizer = strings.NewReplacer(
	"\u200B", "", // zero-width space
	"\u200C", "", // zero-width non-joiner
	"\u200D", "", // zero-width joiner
	"\u2060", "", // word joiner
	"\uFEFF", "", // byte-order mark
	"\u00A0", " ", // non-breaking space
	"\u201C", `"`,
	"\u201D", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2026", "...",
	"\r\n", "\n",
	"\r", "\n",
)

// cleanPayload runs the repair pipeline: strip code fences, normalize unicode,
// slice to the outermost object, then fix trailing and missing commas. Returns
// the empty string when no object braces are present. Running the pipeline on
// its own output is a no-op.
func cleanPayload(raw string) string {
	s := stripCodeFence(raw)
	s = normalizer.Replace(s)
	s = sliceObject(s)
	if s == "" {
		return ""
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = missedCommaRe.ReplaceAllString(s, "\",$1\"")
	s = adjacentItemRe.ReplaceAllString(s, "},$1{")

	return s
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// sliceObject cuts the text down to the first { through the last }.
func sliceObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return s[start : end+1]
}

// parseTracks decodes a track suggestion payload. The suggested_tracks field
// must be present and an array; its absence is a parse failure even when the
// JSON itself is valid.
func parseTracks(raw string) (*trackPayload, error) {
	cleaned := cleanPayload(raw)

	if cleaned != "" && gjson.Valid(cleaned) {
		if !gjson.Get(cleaned, "suggested_tracks").IsArray() {
			return nil, parseFailure(cleaned, raw)
		}

		var payload trackPayload
		if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
			return &payload, nil
		}
	}

	// Regex extraction over the normalized text as a last resort.
	source := normalizer.Replace(stripCodeFence(raw))

	pairs := trackPairRe.FindAllStringSubmatch(source, -1)
	if len(pairs) == 0 {
		return nil, parseFailure(cleaned, raw)
	}

	payload := trackPayload{
		PlaylistTitle: firstMatch(titleRe, source),
		Description:   firstMatch(descriptionRe, source),
	}

	for _, pair := range pairs {
		payload.SuggestedTracks = append(payload.SuggestedTracks, models.SuggestedTrack{
			TrackName:  pair[1],
			ArtistName: pair[2],
		})
	}

	return &payload, nil
}

// parsePodcasts is the podcast counterpart of parseTracks.
func parsePodcasts(raw string) (*podcastPayload, error) {
	cleaned := cleanPayload(raw)

	if cleaned != "" && gjson.Valid(cleaned) {
		if !gjson.Get(cleaned, "suggested_podcasts").IsArray() {
			return nil, parseFailure(cleaned, raw)
		}

		var payload podcastPayload
		if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
			return &payload, nil
		}
	}

	source := normalizer.Replace(stripCodeFence(raw))

	pairs := podcastPairRe.FindAllStringSubmatch(source, -1)
	if len(pairs) == 0 {
		return nil, parseFailure(cleaned, raw)
	}

	payload := podcastPayload{
		PlaylistTitle: firstMatch(titleRe, source),
		Description:   firstMatch(descriptionRe, source),
	}

	for _, pair := range pairs {
		payload.SuggestedPodcasts = append(payload.SuggestedPodcasts, models.SuggestedPodcast{
			PodcastName: pair[1],
			Description: pair[2],
		})
	}

	return &payload, nil
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}

	return ""
}

// parseFailure reports the cleaned text for diagnostics, falling back to the
// raw input when cleaning produced nothing.
func parseFailure(cleaned, raw string) error {
	diag := cleaned
	if diag == "" {
		diag = raw
	}

	return fmt.Errorf("%w: %s", shared.ErrSuggestionParse, truncate(strings.TrimSpace(diag), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
