// package tasks hosts the generation pipeline: suggestion, catalog
// resolution, and the orchestrating state machine.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/services"
	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/suggest"
)

// ErrSuperseded marks a pipeline result that finished after a newer attempt
// started. Callers discard these silently.
var ErrSuperseded = errors.New("generation superseded by a newer attempt")

// State is the orchestrator's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateSuggesting
	StateResolving
	StateReady
	StateFailed
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuggesting:
		return "suggesting"
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Suggester is the slice of the suggestion client the engine needs.
type Suggester interface {
	Ready() error
	Name() string
	SuggestTracks(ctx context.Context, req suggest.TrackRequest) (*models.Suggestions, error)
	SuggestPodcasts(ctx context.Context, req suggest.PodcastRequest) (*models.PodcastSuggestions, error)
}

// HistoryRecorder persists a record of each playlist saved to the catalog.
type HistoryRecorder interface {
	Create(p *models.SavedPlaylist) error
}

// GenerateRequest describes one playlist generation.
type GenerateRequest struct {
	Prompt        string
	VibeReference string
	Size          int
	Tuning        *models.Tuning
}

// GenerateResult is a finished generation. Playlist.Tracks may be shorter
// than Requested when the catalog could not match every suggestion.
type GenerateResult struct {
	Playlist  *models.Playlist
	Requested int
	Suggested int
}

// PodcastResult is a finished podcast recommendation run.
type PodcastResult struct {
	Title       string
	Description string
	Shows       []models.Show
}

const defaultPlaylistSize = 10

// GenerateEngine orchestrates the prompt-to-playlist pipeline. It is safe for
// concurrent use; a monotonic attempt counter makes any still-running older
// generation finish as superseded instead of clobbering newer state.
type GenerateEngine struct {
	catalog   services.Catalog
	suggester Suggester
	resolver  *Resolver
	history   HistoryRecorder
	logger    *log.Logger
	rng       *rand.Rand

	attempt atomic.Uint64

	mu       sync.Mutex
	state    State
	playlist *models.Playlist
	saved    *models.SavedPlaylist
}

// NewGenerateEngine wires the pipeline. history may be nil to skip local
// record keeping; rng may be nil for a time-seeded source.
func NewGenerateEngine(catalog services.Catalog, suggester Suggester, resolver *Resolver, history HistoryRecorder, logger *log.Logger) *GenerateEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &GenerateEngine{
		catalog:   catalog,
		suggester: suggester,
		resolver:  resolver,
		history:   history,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// State returns the current lifecycle position.
func (e *GenerateEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Playlist returns the last generated playlist, if any.
func (e *GenerateEngine) Playlist() *models.Playlist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playlist
}

// Saved returns the history record of the last save, if any.
func (e *GenerateEngine) Saved() *models.SavedPlaylist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved
}

// Reset returns the engine to idle and invalidates any in-flight generation.
func (e *GenerateEngine) Reset() {
	e.attempt.Add(1)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.playlist = nil
	e.saved = nil
}

// Generate runs the full pipeline for the request. Input and credentials are
// validated before any network call. A run that resolves zero tracks fails
// with shared.ErrNoMatches; a run overtaken by a newer Generate or Reset
// returns ErrSuperseded.
func (e *GenerateEngine) Generate(ctx context.Context, progress chan<- ProgressUpdate, req GenerateRequest) (*GenerateResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(req.VibeReference)
	}

	if prompt == "" {
		return nil, fmt.Errorf("%w: describe the playlist you want", shared.ErrInvalidInput)
	}

	if err := e.suggester.Ready(); err != nil {
		return nil, err
	}

	size := req.Size
	if size <= 0 {
		size = defaultPlaylistSize
	}

	attempt := e.attempt.Add(1)
	e.setState(attempt, StateSuggesting)
	sendProgress(progress, suggestingUpdate(e.suggester.Name()))

	suggestions, err := e.suggester.SuggestTracks(ctx, suggest.TrackRequest{
		Prompt:        prompt,
		Count:         size,
		VibeReference: strings.TrimSpace(req.VibeReference),
		Tuning:        req.Tuning,
	})
	if err != nil {
		if e.stale(attempt) {
			return nil, ErrSuperseded
		}

		e.setState(attempt, StateFailed)
		return nil, err
	}

	if e.stale(attempt) {
		return nil, ErrSuperseded
	}

	e.setState(attempt, StateResolving)
	e.logger.Debug("resolving suggestions", "count", len(suggestions.Tracks), "size", size)

	tracks := e.resolver.ResolveTracks(ctx, progress, suggestions.Tracks, size)

	if e.stale(attempt) {
		return nil, ErrSuperseded
	}

	if len(tracks) == 0 {
		e.setState(attempt, StateFailed)
		return nil, fmt.Errorf("%w: try a different prompt", shared.ErrNoMatches)
	}

	playlist := &models.Playlist{
		Title:       suggestions.Title,
		Description: suggestions.Description,
		Tracks:      tracks,
	}

	e.mu.Lock()
	e.state = StateReady
	e.playlist = playlist
	e.saved = nil
	e.mu.Unlock()

	return &GenerateResult{
		Playlist:  playlist,
		Requested: size,
		Suggested: len(suggestions.Tracks),
	}, nil
}

// Surprise generates a playlist from a synthesized random prompt. When
// withTuning is set the audio profile axes are randomized too, with
// popularity capped low so deep cuts keep showing up.
func (e *GenerateEngine) Surprise(ctx context.Context, progress chan<- ProgressUpdate, size int, withTuning bool) (*GenerateResult, error) {
	req := e.surpriseRequest(size, withTuning)
	e.logger.Debug("surprise prompt", "prompt", req.Prompt)

	return e.Generate(ctx, progress, req)
}

// Save persists the ready playlist to the catalog as a private playlist and
// records it in local history. Saving an already saved playlist returns the
// existing record.
func (e *GenerateEngine) Save(ctx context.Context, progress chan<- ProgressUpdate) (*models.SavedPlaylist, error) {
	e.mu.Lock()
	if e.state == StateSaved && e.saved != nil {
		saved := e.saved
		e.mu.Unlock()
		return saved, nil
	}

	if e.state != StateReady || e.playlist == nil || len(e.playlist.Tracks) == 0 {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: no playlist is ready to save", shared.ErrInvalidInput)
	}

	playlist := e.playlist
	e.mu.Unlock()

	sendProgress(progress, savingUpdate(playlist.Title))

	user, err := e.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	playlistID, err := e.catalog.CreatePlaylist(ctx, user.ID, playlist.Title, playlist.Description)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(playlist.Tracks))
	for _, track := range playlist.Tracks {
		uris = append(uris, track.URI)
	}

	if err := e.catalog.AddTracks(ctx, playlistID, uris); err != nil {
		return nil, err
	}

	record := &models.SavedPlaylist{
		ID:          shared.GenerateID(),
		SpotifyID:   playlistID,
		Title:       playlist.Title,
		Description: playlist.Description,
		TrackCount:  len(playlist.Tracks),
		CreatedAt:   time.Now().UTC(),
	}

	if e.history != nil {
		if err := e.history.Create(record); err != nil {
			e.logger.Error("failed to record playlist history", "error", err)
		}
	}

	e.mu.Lock()
	e.state = StateSaved
	e.saved = record
	e.mu.Unlock()

	return record, nil
}

// Share returns the public link for the playlist, saving it first if needed.
func (e *GenerateEngine) Share(ctx context.Context, progress chan<- ProgressUpdate) (string, error) {
	saved, err := e.Save(ctx, progress)
	if err != nil {
		return "", err
	}

	return saved.URL(), nil
}

// GeneratePodcasts runs the podcast pipeline: suggest shows for the prompt
// and resolve them against the catalog.
func (e *GenerateEngine) GeneratePodcasts(ctx context.Context, progress chan<- ProgressUpdate, prompt string, count int) (*PodcastResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: describe the podcasts you want", shared.ErrInvalidInput)
	}

	if err := e.suggester.Ready(); err != nil {
		return nil, err
	}

	if count <= 0 {
		count = 5
	}

	sendProgress(progress, suggestingUpdate(e.suggester.Name()))

	suggestions, err := e.suggester.SuggestPodcasts(ctx, suggest.PodcastRequest{Prompt: prompt, Count: count})
	if err != nil {
		return nil, err
	}

	shows := e.resolver.ResolveShows(ctx, progress, suggestions.Podcasts, count)
	if len(shows) == 0 {
		return nil, fmt.Errorf("%w: try a different prompt", shared.ErrNoMatches)
	}

	return &PodcastResult{
		Title:       suggestions.Title,
		Description: suggestions.Description,
		Shows:       shows,
	}, nil
}

// FollowShows saves the given shows to the user's library.
func (e *GenerateEngine) FollowShows(ctx context.Context, progress chan<- ProgressUpdate, shows []models.Show) error {
	ids := make([]string, 0, len(shows))
	for i, show := range shows {
		ids = append(ids, show.ID)
		sendProgress(progress, followingUpdate(i+1, len(shows), show.Name))
	}

	return e.catalog.FollowShows(ctx, ids)
}

func (e *GenerateEngine) stale(attempt uint64) bool {
	return e.attempt.Load() != attempt
}

// setState applies the state only while attempt is still current.
func (e *GenerateEngine) setState(attempt uint64, state State) {
	if e.stale(attempt) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}
