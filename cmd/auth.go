package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songalchemy/internal/server"
	"github.com/desertthunder/songalchemy/internal/shared"
)

const loginTimeout = 2 * time.Minute

// AuthLogin runs the browser PKCE flow: start the local callback server, open
// the authorization URL, and wait for the redirect.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.authFlow()
	if err != nil {
		return err
	}

	if _, ok := flow.CurrentToken(); ok {
		r.writePlainln("Already logged in. Run `songalchemy auth logout` to switch accounts.")
		return nil
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	authURL, err := flow.BeginLogin(state)
	if err != nil {
		return err
	}

	handler := server.NewCallbackHandler(flow, state, r.logger)
	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{Addr: r.config.Server.Addr(), Handler: router.Build()}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("callback server failed", "error", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	r.writePlainln("Opening your browser to log in to Spotify...")
	r.writePlainln(authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser, visit the URL above manually", "error", err)
	}

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return result.Err
		}

		expires := time.UnixMilli(result.Token.ExpiresAt).Format(time.Kitchen)
		r.writePlainf("Logged in. Token expires at %s.\n", expires)
		return nil

	case <-time.After(loginTimeout):
		return fmt.Errorf("%w: no callback received within %s", shared.ErrTimeout, loginTimeout)

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.authFlow()
	if err != nil {
		return err
	}

	if err := flow.Logout(); err != nil {
		return err
	}

	r.writePlainln("Logged out.")
	return nil
}

func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.authFlow()
	if err != nil {
		return err
	}

	token, ok := flow.CurrentToken()
	if !ok {
		r.writePlainln("Not logged in. Run `songalchemy auth login`.")
		return nil
	}

	expires := time.UnixMilli(token.ExpiresAt).Format(time.RFC1123)
	r.writePlainf("Logged in. Token expires %s.\n", expires)

	if token.RefreshToken != "" {
		r.writePlainln("A refresh token is stored; expiry still requires a fresh login.")
	}

	return nil
}
