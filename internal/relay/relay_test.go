// internal/relay/relay_test.go
//
// Relay tests: envelope wire format, failure swallowing, and settings
// precedence.

package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirstudio/leadcore/internal/fallback"
)

func TestSendWireFormat(t *testing.T) {
	var got Envelope
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	env := Envelope{
		Type:    TypeLeadInquiry,
		ToEmail: "info@sirstudio.com",
		Payload: map[string]string{"name": "Asha", "service": "Research Writing"},
		Source:  "IN/Jaipur Chrome Desktop",
	}
	if err := NewNotifier().send(context.Background(), srv.URL, env); err != nil {
		t.Fatalf("send: %v", err)
	}

	if contentType != "application/json" {
		t.Fatalf("Content-Type = %q", contentType)
	}
	if got.Type != TypeLeadInquiry || got.ToEmail != "info@sirstudio.com" || got.Source == "" {
		t.Fatalf("unexpected envelope: %+v", got)
	}
}

func TestSendReportsEndpointErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewNotifier().send(context.Background(), srv.URL, Envelope{Type: TypeResendInquiry}); err == nil {
		t.Fatal("expected an error for a 5xx response")
	}
}

func TestNotifySwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // dead endpoint

	// Must not panic and must not propagate anything.
	NewNotifier().Notify(context.Background(), srv.URL, Envelope{Type: TypeLeadInquiry})

	// Blank URL is a silent no-op.
	NewNotifier().Notify(context.Background(), "", Envelope{Type: TypeLeadInquiry})
}

func TestSettingsPrecedence(t *testing.T) {
	store, err := fallback.Open(filepath.Join(t.TempDir(), "fallback.json"))
	if err != nil {
		t.Fatalf("fallback.Open: %v", err)
	}

	defaults := fallback.WebhookConfig{NotifyEmail: "hello@sirstudio.com"}
	s := NewSettings(store, defaults)
	if got := s.Current(); got.NotifyEmail != "hello@sirstudio.com" || got.URL != "" {
		t.Fatalf("defaults not applied: %+v", got)
	}

	saved := fallback.WebhookConfig{URL: "https://hooks.example.com/z", NotifyEmail: "info@sirstudio.com"}
	if err := s.Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh Settings over the same store must see the saved values win.
	if got := NewSettings(store, defaults).Current(); got != saved {
		t.Fatalf("persisted settings lost: %+v", got)
	}
}
