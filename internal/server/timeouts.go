// internal/server/timeouts.go
//
// Listener construction for the intake and admin surface.
//
// Timeouts are sized for this service's traffic shape:
//
//   • ReadHeaderTimeout –  5 s; nothing legitimate is slow at the header
//     stage.
//   • ReadTimeout       – 10 s; submission bodies are capped at 1 MB by
//     the intake handler, so a slow body is an abusive client, not a
//     large upload.
//   • WriteTimeout      – 30 s; the slowest response is the admin CSV
//     export, which streams the whole inquiry mirror in one pass.
//   • IdleTimeout       – 60 s; the form page and the admin dashboard
//     reuse keep-alives well within a minute.
//
// Graceful drain is the caller's job.  cmd/web pairs this server with a
// signal-driven Shutdown so in-flight submissions finish before exit.

package server

import (
	"net/http"
	"time"
)

// New constructs the service listener with the timeout profile above.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
