package profiling

import (
	"log"
	"net/http"
	"time"
)

// Middleware wraps handlers with request timing when profiling is on.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates the timing middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// ProfiledHandler wraps a handler with a named timing log line.
func (m *Middleware) ProfiledHandler(name string, next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("⏱  %s handled in %v", name, time.Since(start))
	})
}
