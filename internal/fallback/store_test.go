// internal/fallback/store_test.go
//
// Tests for the file-backed fallback store: slot round-trips, queue
// ordering, and corrupt-file tolerance.

package fallback

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirstudio/leadcore/internal/inquiry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "fallback.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func rec(id, service string) inquiry.Inquiry {
	return inquiry.Inquiry{
		ID:        id,
		Name:      "Asha",
		Email:     "a@x.com",
		Service:   service,
		Status:    inquiry.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.Config(); got.URL != "" || got.NotifyEmail != "" {
		t.Fatalf("fresh store must read empty config, got %+v", got)
	}

	want := WebhookConfig{URL: "https://hooks.example.com/x", NotifyEmail: "info@sirstudio.com"}
	if err := s.SetConfig(want); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if got := s.Config(); got != want {
		t.Fatalf("Config = %+v, want %+v", got, want)
	}
}

func TestPrependIsMostRecentFirst(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"first", "second", "third"} {
		if err := s.Prepend(rec(id, "Research Writing")); err != nil {
			t.Fatalf("Prepend %s: %v", id, err)
		}
	}

	queue := s.Inquiries()
	if len(queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(queue))
	}
	for i, want := range []string{"third", "second", "first"} {
		if queue[i].ID != want {
			t.Fatalf("queue[%d] = %s, want %s", i, queue[i].ID, want)
		}
	}
}

func TestPrependSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Prepend(rec("id-1", "Academic Help")); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	queue := reopened.Inquiries()
	if len(queue) != 1 || queue[0].ID != "id-1" || queue[0].Service != "Academic Help" {
		t.Fatalf("unexpected queue after reopen: %#v", queue)
	}
}

func TestSetHandled(t *testing.T) {
	s := newTestStore(t)
	if err := s.Prepend(rec("id-1", "Exam Preparation")); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	if err := s.SetHandled("id-1", true); err != nil {
		t.Fatalf("SetHandled: %v", err)
	}
	queue := s.Inquiries()
	if !queue[0].Handled || queue[0].Status != inquiry.StatusCompleted {
		t.Fatalf("record not marked handled: %+v", queue[0])
	}

	// Unknown id is a no-op, not an error.
	if err := s.SetHandled("ghost", true); err != nil {
		t.Fatalf("SetHandled(ghost): %v", err)
	}
	if got := s.Inquiries(); len(got) != 1 {
		t.Fatalf("queue changed by no-op update: %#v", got)
	}
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if queue := s.Inquiries(); queue != nil {
		t.Fatalf("corrupt queue must read as empty, got %#v", queue)
	}
	if cfg := s.Config(); cfg != (WebhookConfig{}) {
		t.Fatalf("corrupt config must read as zero, got %+v", cfg)
	}

	// The store must recover on the next write.
	if err := s.Prepend(rec("id-1", "CSR Activities")); err != nil {
		t.Fatalf("Prepend after corruption: %v", err)
	}
	if queue := s.Inquiries(); len(queue) != 1 {
		t.Fatalf("store did not recover: %#v", queue)
	}
}
