// Package routes declares HTTP endpoints as nested prefix groups that are
// expanded into net/http ServeMux patterns.
package routes

import "net/http"

// Route is a single endpoint. Pattern is relative to the enclosing group and
// may be empty to match the group prefix itself.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group collects routes that share a path prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Each visits every route in g and its children with the full mux pattern.
func (g Group) Each(visit func(pattern string, h http.Handler)) {
	g.walk("", visit)
}

func (g Group) walk(parent string, visit func(string, http.Handler)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		child.walk(prefix, visit)
	}
}

// Register installs every group on mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.Each(mux.Handle)
	}
}
