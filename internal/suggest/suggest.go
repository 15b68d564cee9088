package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

// TrackRequest describes one track suggestion call.
type TrackRequest struct {
	Prompt        string
	Count         int
	VibeReference string
	Tuning        *models.Tuning
}

// PodcastRequest describes one podcast suggestion call.
type PodcastRequest struct {
	Prompt string
	Count  int
}

// Client runs suggestion requests against a Backend and normalizes the
// results.
type Client struct {
	backend Backend
	logger  *log.Logger
}

func NewClient(backend Backend, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{backend: backend, logger: logger}
}

// Ready reports whether the underlying backend has credentials.
func (c *Client) Ready() error {
	return c.backend.Ready()
}

// Name identifies the underlying backend.
func (c *Client) Name() string {
	return c.backend.Name()
}

// SuggestTracks asks the backend for count+3 candidate tracks for the prompt.
// Missing title or description fall back to generic metadata; an unparseable
// response is an error, never an empty result.
func (c *Client) SuggestTracks(ctx context.Context, req TrackRequest) (*models.Suggestions, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", shared.ErrInvalidInput)
	}

	system := buildTrackPrompt(req.Count, req.VibeReference, req.Tuning)

	c.logger.Debug("requesting track suggestions", "backend", c.backend.Name(), "count", req.Count)

	raw, err := c.backend.Generate(ctx, system, req.Prompt)
	if err != nil {
		return nil, err
	}

	payload, err := parseTracks(raw)
	if err != nil {
		c.logger.Warn("unparseable suggestion payload", "backend", c.backend.Name())
		return nil, err
	}

	result := models.Suggestions{
		Title:       payload.PlaylistTitle,
		Description: payload.Description,
		Tracks:      payload.SuggestedTracks,
	}

	if result.Title == "" {
		result.Title = FallbackTitle
	}

	if result.Description == "" {
		result.Description = FallbackDescription
	}

	c.logger.Debug("parsed suggestions", "tracks", len(result.Tracks), "title", result.Title)

	return &result, nil
}

// SuggestPodcasts asks the backend for exactly count podcasts for the prompt.
func (c *Client) SuggestPodcasts(ctx context.Context, req PodcastRequest) (*models.PodcastSuggestions, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", shared.ErrInvalidInput)
	}

	system := buildPodcastPrompt(req.Count)

	raw, err := c.backend.Generate(ctx, system, req.Prompt)
	if err != nil {
		return nil, err
	}

	payload, err := parsePodcasts(raw)
	if err != nil {
		return nil, err
	}

	result := models.PodcastSuggestions{
		Title:       payload.PlaylistTitle,
		Description: payload.Description,
		Podcasts:    payload.SuggestedPodcasts,
	}

	if result.Title == "" {
		result.Title = FallbackPodcastTitle
	}

	if result.Description == "" {
		result.Description = FallbackPodcastDescription
	}

	return &result, nil
}
