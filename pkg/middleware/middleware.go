// Package middleware provides composable net/http middleware and the stack
// that orders them.
package middleware

import "net/http"

// Func wraps a handler with additional behavior.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first middleware registered is
// the outermost at request time.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
}

type chain []Func

func New() System {
	return &chain{}
}

func (c *chain) Use(mw Func) {
	*c = append(*c, mw)
}

func (c *chain) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := range *c {
		wrapped = (*c)[len(*c)-1-i](wrapped)
	}
	return wrapped
}
