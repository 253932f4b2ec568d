// internal/intake/orchestrator_test.go
//
// Orchestrator tests with hand-rolled fakes: validation short-circuit,
// primary path, fallback path, and relay independence.

package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sirstudio/leadcore/internal/fallback"
	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/relay"
)

type fakeStore struct {
	err      error
	inserted []inquiry.Inquiry
}

func (f *fakeStore) Insert(_ context.Context, inq *inquiry.Inquiry) error {
	if f.err != nil {
		return f.err
	}
	inq.ID = fmt.Sprintf("remote-%d", len(f.inserted)+1)
	inq.Status = inquiry.StatusPending
	inq.CreatedAt = time.Now().UTC()
	inq.UpdatedAt = inq.CreatedAt
	f.inserted = append(f.inserted, *inq)
	return nil
}

type fakeQueue struct {
	err  error
	recs []inquiry.Inquiry
}

func (f *fakeQueue) Prepend(rec inquiry.Inquiry) error {
	if f.err != nil {
		return f.err
	}
	f.recs = append([]inquiry.Inquiry{rec}, f.recs...)
	return nil
}

func testSettings(t *testing.T, url string) *relay.Settings {
	t.Helper()
	store, err := fallback.Open(filepath.Join(t.TempDir(), "fallback.json"))
	if err != nil {
		t.Fatalf("fallback.Open: %v", err)
	}
	return relay.NewSettings(store, fallback.WebhookConfig{
		URL:         url,
		NotifyEmail: "info@sirstudio.com",
	})
}

func newOrchestrator(t *testing.T, st *fakeStore, q *fakeQueue, webhookURL string) *Orchestrator {
	t.Helper()
	return New(st, q, relay.NewNotifier(), testSettings(t, webhookURL), zap.NewNop().Sugar())
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	st := &fakeStore{}
	q := &fakeQueue{}
	o := newOrchestrator(t, st, q, "")

	cases := []Candidate{
		{Email: "a@x.com", Service: "Academic Help"},            // no name
		{Name: "Asha", Service: "Academic Help"},                // no email
		{Name: "Asha", Email: "a@x.com"},                        // no service
		{Name: "   ", Email: "a@x.com", Service: "CSR Activities"}, // whitespace only
	}
	for i, cand := range cases {
		_, err := o.Submit(context.Background(), cand, "")
		if !IsValidationError(err) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
	if len(st.inserted) != 0 || len(q.recs) != 0 {
		t.Fatalf("validation failure must have no side effects: store=%d queue=%d",
			len(st.inserted), len(q.recs))
	}
}

func TestSubmitPrimaryPathRelaysWebhook(t *testing.T) {
	got := make(chan relay.Envelope, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env relay.Envelope
		_ = json.NewDecoder(r.Body).Decode(&env)
		got <- env
	}))
	defer srv.Close()

	st := &fakeStore{}
	q := &fakeQueue{}
	o := newOrchestrator(t, st, q, srv.URL)

	res, err := o.Submit(context.Background(), Candidate{
		Name: "Asha", Email: "A@X.com", Service: "Research Writing",
	}, "https://sirstudio.com/")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != StatusStored {
		t.Fatalf("Status = %q, want %q", res.Status, StatusStored)
	}
	if len(st.inserted) != 1 || len(q.recs) != 0 {
		t.Fatalf("exactly one remote record expected: store=%d queue=%d",
			len(st.inserted), len(q.recs))
	}
	if st.inserted[0].Email != "a@x.com" {
		t.Fatalf("email not normalized: %q", st.inserted[0].Email)
	}

	select {
	case env := <-got:
		if env.Type != relay.TypeLeadInquiry || env.ToEmail != "info@sirstudio.com" {
			t.Fatalf("unexpected envelope: %+v", env)
		}
		if env.Source != "https://sirstudio.com/" {
			t.Fatalf("source missing from envelope: %+v", env)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never dispatched")
	}
}

func TestSubmitRelayFailureDoesNotAffectOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // dead endpoint

	st := &fakeStore{}
	o := newOrchestrator(t, st, &fakeQueue{}, srv.URL)

	res, err := o.Submit(context.Background(), Candidate{
		Name: "Asha", Email: "a@x.com", Service: "Exam Preparation",
	}, "")
	if err != nil || res.Status != StatusStored {
		t.Fatalf("relay failure leaked into the primary path: res=%+v err=%v", res, err)
	}
}

func TestSubmitFallsBackWhenRemoteFails(t *testing.T) {
	st := &fakeStore{err: errors.New("connection refused")}
	q := &fakeQueue{}
	o := newOrchestrator(t, st, q, "")

	res, err := o.Submit(context.Background(), Candidate{
		Name: "Asha", Email: "a@x.com", Service: "Research Writing",
	}, "")
	if err != nil {
		t.Fatalf("fallback is a success outcome, got error: %v", err)
	}
	if res.Status != StatusFallback {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFallback)
	}
	if len(q.recs) != 1 {
		t.Fatalf("queue length = %d, want 1", len(q.recs))
	}

	rec := q.recs[0]
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("fallback record missing generated fields: %+v", rec)
	}
	if rec.Service != "Research Writing" || rec.Handled {
		t.Fatalf("unexpected fallback record: %+v", rec)
	}
}

func TestSubmitFallbackKeepsQueueOrder(t *testing.T) {
	st := &fakeStore{err: errors.New("down")}
	q := &fakeQueue{}
	o := newOrchestrator(t, st, q, "")

	for _, name := range []string{"first", "second"} {
		if _, err := o.Submit(context.Background(), Candidate{
			Name: name, Email: "a@x.com", Service: "Academic Help",
		}, ""); err != nil {
			t.Fatalf("Submit %s: %v", name, err)
		}
	}
	if q.recs[0].Name != "second" || q.recs[1].Name != "first" {
		t.Fatalf("queue must be most-recent-first: %#v", q.recs)
	}
}

func TestSubmitTwiceStoresTwice(t *testing.T) {
	st := &fakeStore{}
	o := newOrchestrator(t, st, &fakeQueue{}, "")

	cand := Candidate{Name: "Asha", Email: "a@x.com", Service: "Research Writing"}
	for i := 0; i < 2; i++ {
		if _, err := o.Submit(context.Background(), cand, ""); err != nil {
			t.Fatalf("Submit #%d: %v", i+1, err)
		}
	}
	if len(st.inserted) != 2 {
		t.Fatalf("expected two remote records, got %d", len(st.inserted))
	}
	if st.inserted[0].ID == st.inserted[1].ID {
		t.Fatal("duplicate submissions must produce distinct ids")
	}
}

func TestSubmitErrorsWhenBothPathsFail(t *testing.T) {
	st := &fakeStore{err: errors.New("remote down")}
	q := &fakeQueue{err: errors.New("disk full")}
	o := newOrchestrator(t, st, q, "")

	_, err := o.Submit(context.Background(), Candidate{
		Name: "Asha", Email: "a@x.com", Service: "Research Writing",
	}, "")
	if err == nil {
		t.Fatal("expected an error when remote and fallback both fail")
	}
	if IsValidationError(err) {
		t.Fatalf("must not be a validation error: %v", err)
	}
}
