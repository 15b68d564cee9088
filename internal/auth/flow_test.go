package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songalchemy/internal/shared"
	"github.com/desertthunder/songalchemy/internal/store"
)

func newTestFlow(t *testing.T) (*Flow, *store.SessionStore, *store.SessionStore) {
	t.Helper()

	session := store.NewSessionStore()
	durable := store.NewSessionStore()

	flow, err := NewFlow("client-123", "http://127.0.0.1:8080/callback", session, durable)
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}

	return flow, session, durable
}

func TestNewFlow(t *testing.T) {
	t.Run("requires a client id", func(t *testing.T) {
		_, err := NewFlow("", "http://127.0.0.1:8080/callback", store.NewSessionStore(), store.NewSessionStore())
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestBeginLogin(t *testing.T) {
	flow, session, _ := newTestFlow(t)

	authURL, err := flow.BeginLogin("state-abc")
	if err != nil {
		t.Fatalf("BeginLogin: %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}

	query := parsed.Query()

	t.Run("carries the oauth parameters", func(t *testing.T) {
		if got := query.Get("client_id"); got != "client-123" {
			t.Errorf("client_id = %q", got)
		}

		if got := query.Get("response_type"); got != "code" {
			t.Errorf("response_type = %q", got)
		}

		if got := query.Get("redirect_uri"); got != "http://127.0.0.1:8080/callback" {
			t.Errorf("redirect_uri = %q", got)
		}

		if got := query.Get("code_challenge_method"); got != "S256" {
			t.Errorf("code_challenge_method = %q", got)
		}

		if scopes := query.Get("scope"); !strings.Contains(scopes, "user-top-read") {
			t.Errorf("scope missing user-top-read: %q", scopes)
		}
	})

	t.Run("challenge is the hash of the stored verifier", func(t *testing.T) {
		verifier, _ := session.Get(store.KeyCodeVerifier)
		if len(verifier) != verifierLength {
			t.Fatalf("verifier length = %d, want %d", len(verifier), verifierLength)
		}

		for _, c := range verifier {
			if !strings.ContainsRune(verifierAlphabet, c) {
				t.Fatalf("verifier contains %q outside the alphabet", c)
			}
		}

		sum := sha256.Sum256([]byte(verifier))
		want := base64.RawURLEncoding.EncodeToString(sum[:])

		if got := query.Get("code_challenge"); got != want {
			t.Errorf("code_challenge = %q, want %q", got, want)
		}
	})

	t.Run("a second call replaces the verifier", func(t *testing.T) {
		first, _ := session.Get(store.KeyCodeVerifier)

		if _, err := flow.BeginLogin("state-def"); err != nil {
			t.Fatalf("BeginLogin: %v", err)
		}

		second, _ := session.Get(store.KeyCodeVerifier)
		if first == second {
			t.Error("verifier was not replaced")
		}
	})
}

func TestCompleteLogin(t *testing.T) {
	t.Run("without a begun login the session is expired", func(t *testing.T) {
		flow, _, _ := newTestFlow(t)

		_, err := flow.CompleteLogin(context.Background(), "code-1")
		if !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("successful exchange persists the token and consumes the verifier", func(t *testing.T) {
		flow, _, durable := newTestFlow(t)

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}

			if r.Form.Get("code_verifier") == "" {
				t.Error("exchange request missing code_verifier")
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"token-123","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh-456"}`)
		}))
		defer ts.Close()

		flow.config.Endpoint.TokenURL = ts.URL

		if _, err := flow.BeginLogin("state-abc"); err != nil {
			t.Fatalf("BeginLogin: %v", err)
		}

		token, err := flow.CompleteLogin(context.Background(), "code-1")
		if err != nil {
			t.Fatalf("CompleteLogin: %v", err)
		}

		if token.AccessToken != "token-123" {
			t.Errorf("access token = %q", token.AccessToken)
		}

		if token.RefreshToken != "refresh-456" {
			t.Errorf("refresh token = %q", token.RefreshToken)
		}

		wantExpiry := time.Now().Add(time.Hour).UnixMilli()
		if diff := token.ExpiresAt - wantExpiry; diff < -5000 || diff > 5000 {
			t.Errorf("expiry %d not near %d", token.ExpiresAt, wantExpiry)
		}

		if stored, _ := durable.Get(store.KeyAccessToken); stored != "token-123" {
			t.Errorf("persisted token = %q", stored)
		}

		_, err = flow.CompleteLogin(context.Background(), "code-2")
		if !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("verifier should be single-use, got %v", err)
		}
	})

	t.Run("provider rejection surfaces status and body", func(t *testing.T) {
		flow, _, _ := newTestFlow(t)

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
		}))
		defer ts.Close()

		flow.config.Endpoint.TokenURL = ts.URL

		if _, err := flow.BeginLogin("state-abc"); err != nil {
			t.Fatalf("BeginLogin: %v", err)
		}

		_, err := flow.CompleteLogin(context.Background(), "bad-code")
		if !errors.Is(err, shared.ErrAuthExchangeFailed) {
			t.Fatalf("expected ErrAuthExchangeFailed, got %v", err)
		}

		if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "invalid_grant") {
			t.Errorf("error missing provider detail: %v", err)
		}
	})
}

func TestCurrentToken(t *testing.T) {
	t.Run("absent when nothing is stored", func(t *testing.T) {
		flow, _, _ := newTestFlow(t)

		if _, ok := flow.CurrentToken(); ok {
			t.Fatal("expected no token")
		}
	})

	t.Run("returns a live token", func(t *testing.T) {
		flow, _, durable := newTestFlow(t)

		expires := time.Now().Add(time.Hour).UnixMilli()
		durable.Set(store.KeyAccessToken, "token-123")
		durable.Set(store.KeyTokenExpires, strconv.FormatInt(expires, 10))

		token, ok := flow.CurrentToken()
		if !ok {
			t.Fatal("expected a token")
		}

		if token.AccessToken != "token-123" || token.ExpiresAt != expires {
			t.Errorf("token = %+v", token)
		}
	})

	t.Run("a token expiring exactly now is absent", func(t *testing.T) {
		flow, _, durable := newTestFlow(t)

		instant := time.Now()
		flow.now = func() time.Time { return instant }

		durable.Set(store.KeyAccessToken, "token-123")
		durable.Set(store.KeyTokenExpires, strconv.FormatInt(instant.UnixMilli(), 10))

		if _, ok := flow.CurrentToken(); ok {
			t.Fatal("token at its expiry instant should be absent")
		}
	})

	t.Run("an expired token is cleared on read", func(t *testing.T) {
		flow, _, durable := newTestFlow(t)

		durable.Set(store.KeyAccessToken, "token-123")
		durable.Set(store.KeyTokenExpires, strconv.FormatInt(time.Now().Add(-time.Minute).UnixMilli(), 10))
		durable.Set(store.KeyRefreshToken, "refresh-456")

		if _, ok := flow.CurrentToken(); ok {
			t.Fatal("expected expired token to be absent")
		}

		if stored, _ := durable.Get(store.KeyAccessToken); stored != "" {
			t.Error("access token survived expiry")
		}

		if stored, _ := durable.Get(store.KeyRefreshToken); stored != "" {
			t.Error("refresh token survived expiry")
		}
	})
}

func TestLogout(t *testing.T) {
	flow, session, durable := newTestFlow(t)

	session.Set(store.KeyCodeVerifier, "pending")
	durable.Set(store.KeyAccessToken, "token-123")
	durable.Set(store.KeyTokenExpires, strconv.FormatInt(time.Now().Add(time.Hour).UnixMilli(), 10))

	if err := flow.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, ok := flow.CurrentToken(); ok {
		t.Error("token survived logout")
	}

	if verifier, _ := session.Get(store.KeyCodeVerifier); verifier != "" {
		t.Error("verifier survived logout")
	}
}
