// package server hosts the short-lived local HTTP server that catches the
// OAuth redirect during login.
package server

import "net/http"

// Middleware wraps a handler with cross-cutting behavior.
type Middleware interface {
	Apply(next http.Handler) http.Handler
}

// Handler is an http.Handler that declares the routes it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and middleware and exposes the composed handler.
type Router interface {
	Handler(h Handler)
	Use(m Middleware)
	Build() http.Handler
}
