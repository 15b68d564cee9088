// package store provides string-keyed credential storage with two lifetimes:
// an in-memory session store and a durable sqlite-backed store.
//
// Values are stored in plaintext. Keys are namespaced constants owned by this
// package so callers never invent ad-hoc key strings.
package store

import "sync"

// Well-known credential keys.
const (
	KeyCodeVerifier = "spotify_code_verifier"
	KeyAccessToken  = "spotify_token"
	KeyTokenExpires = "spotify_token_expires"
	KeyRefreshToken = "spotify_refresh_token"
	KeyOpenAIKey    = "openai_api_key"
	KeyGeminiKey    = "gemini_api_key"
	KeyBackend      = "suggestion_backend"
)

// Store is a string-keyed credential store. Get returns the empty string, not
// an error, when the key is absent. Delete of an absent key is a no-op.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// SessionStore is an in-memory Store scoped to the process lifetime. It holds
// short-lived secrets like the PKCE code verifier, and doubles as the test
// fake for the durable store.
type SessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{values: make(map[string]string)}
}

func (s *SessionStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *SessionStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *SessionStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
