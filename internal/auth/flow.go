// package auth implements the PKCE authorization-code flow against the
// Spotify accounts service and owns token persistence.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/store"
)

const (
	authURL  = "https://accounts.spotify.com/authorize"
	tokenURL = "https://accounts.spotify.com/api/token"

	verifierLength   = 64
	verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Scopes requested during login.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-modify-public",
	"playlist-modify-private",
	"playlist-read-private",
	"user-top-read",
	"user-library-modify",
}

// Flow drives the PKCE login sequence. The code verifier lives in the session
// store and is consumed exactly once per login attempt; tokens live in the
// durable store.
type Flow struct {
	config  *oauth2.Config
	session store.Store
	durable store.Store
	now     func() time.Time
}

// NewFlow builds a Flow for the given public client. Fails when no client ID
// is configured.
func NewFlow(clientID, redirectURI string, session, durable store.Store) (*Flow, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: spotify client id is not configured", shared.ErrMissingCredentials)
	}

	conf := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}

	return &Flow{
		config:  conf,
		session: session,
		durable: durable,
		now:     time.Now,
	}, nil
}

// BeginLogin generates a fresh code verifier, stores it for the session
// (replacing any prior one), and returns the provider authorization URL
// carrying the S256 challenge.
func (f *Flow) BeginLogin(state string) (string, error) {
	verifier, err := generateVerifier()
	if err != nil {
		return "", err
	}

	if err := f.session.Set(store.KeyCodeVerifier, verifier); err != nil {
		return "", err
	}

	return f.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// CompleteLogin exchanges the authorization code for a token using the stored
// verifier. The verifier is single-use: a missing verifier means the login
// session expired, and a successful exchange removes it.
func (f *Flow) CompleteLogin(ctx context.Context, code string) (models.Token, error) {
	verifier, err := f.session.Get(store.KeyCodeVerifier)
	if err != nil {
		return models.Token{}, err
	}

	if verifier == "" {
		return models.Token{}, fmt.Errorf("%w: no code verifier found, restart the login", shared.ErrSessionExpired)
	}

	tok, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return models.Token{}, fmt.Errorf("%w: status %d: %s",
				shared.ErrAuthExchangeFailed, retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}

		return models.Token{}, fmt.Errorf("%w: %v", shared.ErrAuthExchangeFailed, err)
	}

	_ = f.session.Delete(store.KeyCodeVerifier)

	token := models.Token{
		AccessToken:  tok.AccessToken,
		ExpiresAt:    tok.Expiry.UnixMilli(),
		RefreshToken: tok.RefreshToken,
	}

	if err := f.saveToken(token); err != nil {
		return models.Token{}, err
	}

	return token, nil
}

// CurrentToken returns the stored token when one exists and is unexpired.
// Reading an expired token clears it, so the next read reports absence.
func (f *Flow) CurrentToken() (models.Token, bool) {
	access, err := f.durable.Get(store.KeyAccessToken)
	if err != nil || access == "" {
		return models.Token{}, false
	}

	expires, err := f.durable.Get(store.KeyTokenExpires)
	if err != nil || expires == "" {
		return models.Token{}, false
	}

	expiresAt, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || f.now().UnixMilli() >= expiresAt {
		_ = f.ClearToken()
		return models.Token{}, false
	}

	refresh, _ := f.durable.Get(store.KeyRefreshToken)

	return models.Token{AccessToken: access, ExpiresAt: expiresAt, RefreshToken: refresh}, true
}

// ClearToken removes all persisted token material. The refresh token is
// cleared too: it is stored for inspection but never exchanged, so an expired
// or rejected session always forces a full re-login.
func (f *Flow) ClearToken() error {
	if err := f.durable.Delete(store.KeyAccessToken); err != nil {
		return err
	}

	if err := f.durable.Delete(store.KeyTokenExpires); err != nil {
		return err
	}

	return f.durable.Delete(store.KeyRefreshToken)
}

// Logout clears the token and any pending verifier.
func (f *Flow) Logout() error {
	_ = f.session.Delete(store.KeyCodeVerifier)
	return f.ClearToken()
}

func (f *Flow) saveToken(t models.Token) error {
	if err := f.durable.Set(store.KeyAccessToken, t.AccessToken); err != nil {
		return err
	}

	if err := f.durable.Set(store.KeyTokenExpires, strconv.FormatInt(t.ExpiresAt, 10)); err != nil {
		return err
	}

	if t.RefreshToken != "" {
		return f.durable.Set(store.KeyRefreshToken, t.RefreshToken)
	}

	return nil
}

// generateVerifier produces a 64-character alphanumeric code verifier. The
// oauth2 package's GenerateVerifier emits 43 base64url characters; the
// provider contract here wants the longer alphanumeric form.
func generateVerifier() (string, error) {
	max := big.NewInt(int64(len(verifierAlphabet)))
	buf := make([]byte, verifierLength)

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate code verifier: %w", err)
		}
		buf[i] = verifierAlphabet[n.Int64()]
	}

	return string(buf), nil
}
