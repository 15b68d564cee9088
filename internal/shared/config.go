package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var defaultConfig string

// Config is the application configuration, loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Suggestions SuggestionsConfig `toml:"suggestions"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Resolver    ResolverConfig    `toml:"resolver"`
}

type CredentialsConfig struct {
	Spotify SpotifyCredentials `toml:"spotify"`
	OpenAI  BackendCredentials `toml:"openai"`
	Gemini  BackendCredentials `toml:"gemini"`
}

type SpotifyCredentials struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

type BackendCredentials struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type SuggestionsConfig struct {
	Backend string `toml:"backend"`
}

type PlaylistConfig struct {
	Size int `toml:"size"`
}

type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type ResolverConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// Addr returns the host:port pair the callback server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig returns the embedded example configuration.
func DefaultConfig() (*Config, error) {
	var conf Config
	if _, err := toml.Decode(defaultConfig, &conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &conf, nil
}

// LoadConfig reads the configuration at path, falling back to the embedded
// default when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig()
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	conf, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	if _, err := toml.Decode(string(data), conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return conf, nil
}

// CreateConfigFile writes the embedded example configuration to path. Fails if
// the file already exists.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", ErrInvalidConfig, path)
	}

	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
