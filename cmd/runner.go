package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songalchemy/internal/auth"
	"github.com/desertthunder/songalchemy/internal/repositories"
	"github.com/desertthunder/songalchemy/internal/services"
	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/store"
	"github.com/desertthunder/songalchemy/internal/suggest"
	"github.com/desertthunder/songalchemy/internal/tasks"
)

// Runner holds the application dependencies and implements the command
// actions. Auth-dependent pieces are built lazily so commands like setup work
// before any credentials exist.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
	session store.Store
	durable store.Store
	history *repositories.PlaylistRepository

	flow    *auth.Flow
	catalog services.Catalog
}

// RunnerOpts configures NewRunner. Zero values select production defaults.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	DB     *sql.DB
}

func NewRunner(opts RunnerOpts) (*Runner, error) {
	conf := opts.Config
	if conf == nil {
		var err error
		if conf, err = shared.DefaultConfig(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	db := opts.DB
	if db == nil {
		var err error
		if db, err = shared.NewDatabase(conf.Database); err != nil {
			return nil, err
		}
	}

	if err := repositories.Migrate(db); err != nil {
		return nil, err
	}

	durable, err := store.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:  conf,
		logger:  logger,
		output:  output,
		db:      db,
		session: store.NewSessionStore(),
		durable: durable,
		history: repositories.NewPlaylistRepository(db),
	}, nil
}

func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}

	return r.db.Close()
}

// authFlow builds (and caches) the PKCE flow. Fails when no Spotify client id
// is configured.
func (r *Runner) authFlow() (*auth.Flow, error) {
	if r.flow != nil {
		return r.flow, nil
	}

	creds := r.config.Credentials.Spotify

	flow, err := auth.NewFlow(creds.ClientID, creds.RedirectURI, r.session, r.durable)
	if err != nil {
		return nil, err
	}

	r.flow = flow

	return flow, nil
}

func (r *Runner) catalogClient() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	flow, err := r.authFlow()
	if err != nil {
		return nil, err
	}

	r.catalog = services.NewSpotifyService("", nil, flow, r.logger)

	return r.catalog, nil
}

// suggestClient builds the suggestion client for the selected backend. API
// keys in the credential store win over the config file, so keys set with
// `setup keys` take effect without editing config.
func (r *Runner) suggestClient() (*suggest.Client, error) {
	backendName, err := r.durable.Get(store.KeyBackend)
	if err != nil {
		return nil, err
	}

	if backendName == "" {
		backendName = r.config.Suggestions.Backend
	}

	var backend suggest.Backend

	switch backendName {
	case "gemini":
		key, err := r.durable.Get(store.KeyGeminiKey)
		if err != nil {
			return nil, err
		}

		if key == "" {
			key = r.config.Credentials.Gemini.APIKey
		}

		backend = suggest.NewGeminiBackend(key, r.config.Credentials.Gemini.Model, "", nil)

	case "", "openai":
		key, err := r.durable.Get(store.KeyOpenAIKey)
		if err != nil {
			return nil, err
		}

		if key == "" {
			key = r.config.Credentials.OpenAI.APIKey
		}

		backend = suggest.NewOpenAIBackend(key, r.config.Credentials.OpenAI.Model)

	default:
		return nil, fmt.Errorf("%w: unknown suggestion backend %q", shared.ErrInvalidConfig, backendName)
	}

	return suggest.NewClient(backend, r.logger), nil
}

func (r *Runner) generateEngine() (*tasks.GenerateEngine, error) {
	catalog, err := r.catalogClient()
	if err != nil {
		return nil, err
	}

	suggester, err := r.suggestClient()
	if err != nil {
		return nil, err
	}

	resolver := tasks.NewResolver(catalog, tasks.ResolverOpts{
		Workers:   r.config.Resolver.Workers,
		RateLimit: r.config.Resolver.RateLimit,
	})

	return tasks.NewGenerateEngine(catalog, suggester, resolver, r.history, r.logger), nil
}

func (r *Runner) playlistSize() int {
	if r.config.Playlist.Size > 0 {
		return r.config.Playlist.Size
	}

	return 10
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.output)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (r *Runner) writePlain(s string) {
	fmt.Fprint(r.output, s)
}

func (r *Runner) writePlainln(s string) {
	fmt.Fprintln(r.output, s)
}

func (r *Runner) writePlainf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}
