// internal/server/timeouts_test.go
//
// Pins the listener's timeout profile so a refactor cannot silently drop
// the hardening.

package server

import (
	"net/http"
	"testing"
	"time"
)

func TestNewAppliesTimeoutProfile(t *testing.T) {
	mux := http.NewServeMux()
	srv := New(":8080", mux)

	if srv.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", srv.Addr)
	}
	if srv.Handler == nil {
		t.Error("handler not attached")
	}
	if srv.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 5s", srv.ReadHeaderTimeout)
	}
	if srv.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", srv.ReadTimeout)
	}
	if srv.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", srv.WriteTimeout)
	}
	if srv.IdleTimeout != 60*time.Second {
		t.Errorf("IdleTimeout = %v, want 60s", srv.IdleTimeout)
	}
}
