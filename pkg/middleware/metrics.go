package middleware

import (
	"net/http"
	"time"
)

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// Metrics returns middleware that reports each request's method, status, and
// duration to obs.
func Metrics(obs RequestObserver) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			obs.ObserveRequest(r.Method, rec.status, time.Since(start))
		})
	}
}
