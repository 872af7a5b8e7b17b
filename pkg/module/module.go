// Package module mounts independently middleware-wrapped routers under
// single-segment path prefixes.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/jurispanel/pkg/middleware"
)

// Module serves an inner router beneath prefix. Requests reach the inner
// router with the prefix removed.
type Module struct {
	prefix string
	inner  http.Handler
	stack  middleware.System
}

// New panics unless prefix is a single segment such as "/api".
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner, stack: middleware.New()}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends mw to the module's middleware stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Handler is the inner router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.stack.Apply(m.inner)
}

// Serve rewrites the request path relative to the prefix and dispatches it.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	rest := strings.TrimPrefix(req.URL.Path, m.prefix)
	if rest == "" {
		rest = "/"
	}

	inner := req.Clone(req.Context())
	inner.URL.Path = rest
	inner.URL.RawPath = ""

	m.Handler().ServeHTTP(w, inner)
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module: empty prefix")
	case prefix[0] != '/':
		return fmt.Errorf("module: prefix %q must begin with /", prefix)
	case strings.Contains(prefix[1:], "/"):
		return fmt.Errorf("module: prefix %q must be a single path segment", prefix)
	}
	return nil
}

// Router selects a mounted module by the first path segment and hands
// everything else to a plain ServeMux.
type Router struct {
	mounted  map[string]*Module
	fallback *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		mounted:  map[string]*Module{},
		fallback: http.NewServeMux(),
	}
}

// HandleNative registers pattern on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.fallback.HandleFunc(pattern, handler)
}

func (r *Router) Mount(m *Module) {
	r.mounted[m.prefix] = m
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	if m, ok := r.mounted[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}
	r.fallback.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	head, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/" + head
}
