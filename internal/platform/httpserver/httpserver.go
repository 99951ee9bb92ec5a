// Package httpserver configures the voting API's http.Server. Per-request
// deadlines live in the router's timeout middleware, so only connection-level
// limits are set here.
package httpserver

import (
	"net/http"
	"time"
)

const (
	// Enrollment requests carry base64 biometric samples, so header reads are
	// bounded separately from body reads.
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// New builds the API server around the given router.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}
