package server

import "net/http"

// BasicRouter is a minimal Router over http.ServeMux. Middleware applies in
// registration order, outermost first.
type BasicRouter struct {
	mux        *http.ServeMux
	middleware []Middleware
}

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

func (r *BasicRouter) Handler(h Handler) {
	for _, route := range h.Routes() {
		r.mux.Handle(route, h)
	}
}

func (r *BasicRouter) Use(m Middleware) {
	r.middleware = append(r.middleware, m)
}

func (r *BasicRouter) Build() http.Handler {
	var handler http.Handler = r.mux

	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i].Apply(handler)
	}

	return handler
}
