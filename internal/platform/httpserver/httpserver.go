// Package httpserver builds the process's HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server. ReadHeaderTimeout comes from config so slow-client
// protection is tunable per deployment; IdleTimeout keeps keep-alive
// connections from pinning resources forever. No ReadTimeout: PDF uploads in
// override approvals can legitimately take a while, the per-request Timeout
// middleware bounds handlers instead.
func New(addr string, handler http.Handler, readHeaderTimeout time.Duration) *http.Server {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}
