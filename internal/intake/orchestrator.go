// internal/intake/orchestrator.go
//
// Submission orchestrator: the dual-write core.
//
/*
Context
--------
One entry point, Submit, with three outcomes:

  1. Candidate invalid → *ValidationError, no side effect anywhere.
  2. Remote insert succeeds → webhook relay fired best-effort, outcome
     StatusStored.  A relay failure is logged, never surfaced, never
     retried, and never reverts the primary write.
  3. Remote insert fails → the record is minted locally (own UUID, own
     timestamp) and prepended to the fallback queue, outcome
     StatusFallback—a distinct status so the caller can say "saved
     locally, remote unavailable" instead of claiming full success.

One remote attempt per call; no retry, no backoff, no de-duplication.
Submitting twice stores twice.  Fallback records stay local forever (no
reconciliation pass—see DESIGN.md).

The relay dispatch is detached from the request: it runs on its own
goroutine with a cancel-free context, so Submit may return before the
POST settles.
*/
package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/metrics"
	"github.com/sirstudio/leadcore/internal/relay"
)

// Outcome of a successful Submit.
const (
	StatusStored   = "stored"   // remote write succeeded
	StatusFallback = "fallback" // remote down, saved to the local queue
)

// RemoteStore is the slice of the inquiry store the orchestrator writes to.
type RemoteStore interface {
	Insert(ctx context.Context, inq *inquiry.Inquiry) error
}

// FallbackQueue is the failure-path sink.
type FallbackQueue interface {
	Prepend(rec inquiry.Inquiry) error
}

// Result reports where the inquiry ended up.
type Result struct {
	Status  string          // StatusStored or StatusFallback
	Inquiry inquiry.Inquiry // the record as persisted, ids and timestamps filled
}

// Orchestrator owns the submission flow.  Construct once at boot and share.
type Orchestrator struct {
	store    RemoteStore
	queue    FallbackQueue
	notifier *relay.Notifier
	settings *relay.Settings
	log      *zap.SugaredLogger
	now      func() time.Time
}

// New wires the orchestrator.  settings carries the webhook URL and
// notification recipient (explicitly threaded, never read from globals).
func New(store RemoteStore, queue FallbackQueue, notifier *relay.Notifier, settings *relay.Settings, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		queue:    queue,
		notifier: notifier,
		settings: settings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates cand and persists it, remote first, local on remote
// failure.  source is free-form origin metadata for the webhook envelope.
func (o *Orchestrator) Submit(ctx context.Context, cand Candidate, source string) (Result, error) {
	if err := cand.validate(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return Result{}, err
	}

	rec := inquiry.Inquiry{
		Name:    cand.Name,
		Email:   cand.Email,
		Phone:   cand.Phone,
		Service: cand.Service,
		Message: cand.Message,
	}

	if err := o.store.Insert(ctx, &rec); err != nil {
		return o.fallback(rec, err)
	}

	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()
	o.log.Infow("inquiry stored",
		"id", rec.ID, "service", rec.Service, "source", source)

	// Best-effort notification, detached from the request lifetime.  The
	// blank-URL case no-ops inside Notify.
	cfg := o.settings.Current()
	go o.notifier.Notify(context.WithoutCancel(ctx), cfg.URL, relay.Envelope{
		Type:    relay.TypeLeadInquiry,
		ToEmail: cfg.NotifyEmail,
		Payload: cand,
		Source:  source,
	})

	return Result{Status: StatusStored, Inquiry: rec}, nil
}

// fallback mints a local record and prepends it to the queue.  Only when
// the queue itself fails do we propagate an error: at that point the lead
// really is lost.
func (o *Orchestrator) fallback(rec inquiry.Inquiry, cause error) (Result, error) {
	now := o.now()
	rec.ID = uuid.NewString()
	rec.Handled = false
	rec.Status = inquiry.StatusPending
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := o.queue.Prepend(rec); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("lost").Inc()
		return Result{}, fmt.Errorf("remote store down (%v), fallback failed: %w", cause, err)
	}

	metrics.SubmissionsTotal.WithLabelValues("fallback").Inc()
	o.log.Warnw("inquiry saved to local fallback, remote store unavailable",
		"id", rec.ID, "service", rec.Service, "err", cause)

	return Result{Status: StatusFallback, Inquiry: rec}, nil
}
