// internal/admin/handler_test.go
//
// Route-level checks over httptest: status codes, filter plumbing, and the
// settings round trip.

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sirstudio/leadcore/internal/fallback"
	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/relay"
)

func newTestHandler(t *testing.T, store *fakeStore) (*httptest.Server, *fallback.Store) {
	t.Helper()

	local, err := fallback.Open(t.TempDir() + "/fallback.json")
	if err != nil {
		t.Fatalf("open fallback store: %v", err)
	}
	settings := relay.NewSettings(local, fallback.WebhookConfig{})

	v := NewView(store, inquiry.NewFeed(), relay.NewNotifier(), settings, zap.NewNop().Sugar())
	if err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	srv := httptest.NewServer(NewHandler(v, local, settings).Routes())
	t.Cleanup(srv.Close)
	return srv, local
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestListInquiriesEndpoint(t *testing.T) {
	srv, _ := newTestHandler(t, &fakeStore{rows: sampleRows()})

	var body struct {
		Inquiries []inquiry.Inquiry `json:"inquiries"`
		Count     int               `json:"count"`
	}
	if code := getJSON(t, srv.URL+"/inquiries", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Count != 3 || len(body.Inquiries) != 3 {
		t.Fatalf("count = %d, rows = %d", body.Count, len(body.Inquiries))
	}

	if code := getJSON(t, srv.URL+"/inquiries?service=Statistical+Analysis", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Count != 1 || body.Inquiries[0].ID != "b" {
		t.Fatalf("filtered response = %+v", body)
	}
}

func TestMarkHandledEndpoint(t *testing.T) {
	srv, _ := newTestHandler(t, &fakeStore{rows: sampleRows()})

	resp, err := http.Post(srv.URL+"/inquiries/b/handled", "application/json",
		strings.NewReader(`{"handled":true}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/inquiries/ghost/handled", "application/json",
		strings.NewReader(`{"handled":true}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", resp.StatusCode)
	}
}

func TestResendEndpointWithoutWebhook(t *testing.T) {
	srv, _ := newTestHandler(t, &fakeStore{rows: sampleRows()})

	resp, err := http.Post(srv.URL+"/inquiries/a/resend", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCSVEndpointSetsDownloadHeaders(t *testing.T) {
	srv, _ := newTestHandler(t, &fakeStore{rows: sampleRows()})

	resp, err := http.Get(srv.URL + "/inquiries.csv")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _ := newTestHandler(t, &fakeStore{})

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/settings",
		strings.NewReader(`{"webhook_url":"https://hooks.example.com/x","notify_email":"ops@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}

	var cfg fallback.WebhookConfig
	if code := getJSON(t, srv.URL+"/settings", &cfg); code != http.StatusOK {
		t.Fatalf("GET status = %d", code)
	}
	if cfg.URL != "https://hooks.example.com/x" || cfg.NotifyEmail != "ops@example.com" {
		t.Fatalf("settings after save = %+v", cfg)
	}
}

func TestFallbackEndpoints(t *testing.T) {
	srv, local := newTestHandler(t, &fakeStore{})

	if err := local.Prepend(inquiry.Inquiry{ID: "fb-1", Name: "Dana",
		Email: "dana@example.com", Service: "Statistical Analysis", Status: inquiry.StatusPending}); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	var body struct {
		Inquiries []inquiry.Inquiry `json:"inquiries"`
		Count     int               `json:"count"`
	}
	if code := getJSON(t, srv.URL+"/fallback", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Count != 1 || body.Inquiries[0].ID != "fb-1" {
		t.Fatalf("fallback list = %+v", body)
	}

	resp, err := http.Post(srv.URL+"/fallback/fb-1/handled", "application/json",
		strings.NewReader(`{"handled":true}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if rows := local.Inquiries(); !rows[0].Handled || rows[0].Status != inquiry.StatusCompleted {
		t.Fatalf("fallback record after update = %+v", rows[0])
	}
}
