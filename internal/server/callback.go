package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songalchemy/internal/auth"
	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/shared"
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>songalchemy</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
	<h1>You're logged in</h1>
	<p>Authentication complete. You can close this tab and return to the terminal.</p>
</body>
</html>`

// CallbackResult carries the outcome of the redirect back to the waiting
// command.
type CallbackResult struct {
	Token models.Token
	Err   error
}

// CallbackHandler receives the provider redirect, validates state, and
// completes the PKCE exchange through the auth flow. Only the first hit
// produces a result; repeated loads of the redirect URL are ignored.
type CallbackHandler struct {
	flow    *auth.Flow
	state   string
	logger  *log.Logger
	results chan CallbackResult
	once    sync.Once
}

func NewCallbackHandler(flow *auth.Flow, state string, logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CallbackHandler{
		flow:    flow,
		state:   state,
		logger:  logger,
		results: make(chan CallbackResult, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// Result exposes the channel the login command waits on.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.fail(w, fmt.Errorf("%w: provider returned %q", shared.ErrAuthExchangeFailed, errParam))
		return
	}

	if query.Get("state") != h.state {
		h.fail(w, fmt.Errorf("%w: state mismatch on callback", shared.ErrAuthExchangeFailed))
		return
	}

	code := query.Get("code")
	if code == "" {
		h.fail(w, fmt.Errorf("%w: callback missing authorization code", shared.ErrAuthExchangeFailed))
		return
	}

	token, err := h.flow.CompleteLogin(r.Context(), code)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.once.Do(func() {
		h.results <- CallbackResult{Token: token}
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)
}

func (h *CallbackHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("oauth callback failed", "error", err)

	h.once.Do(func() {
		h.results <- CallbackResult{Err: err}
	})

	http.Error(w, err.Error(), http.StatusBadRequest)
}
