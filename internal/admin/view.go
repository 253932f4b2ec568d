// internal/admin/view.go
//
// Admin synchronization view: the live in-memory mirror.
//
/*
Context
--------
The dashboard never queries the store per request.  It keeps an ordered
in-memory mirror of every inquiry (newest first, matching the store's
read order) and rebuilds it wholesale whenever the change feed fires.
Full re-read over incremental patching is a deliberate trade: at this
data volume simplicity wins.

The coordinator goroutine consumes feed notifications through a short
debounce window, so a burst of writes costs one re-read, and a
singleflight group collapses any refreshes that still race.  The feed
subscription is taken before the initial read and released on Close, so
no event is missed and no subscription leaks across restarts.

Mutations go write-then-reflect: the remote update must succeed before
the mirror changes, so the dashboard never shows a state the store
rejected.
*/
package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/metrics"
	"github.com/sirstudio/leadcore/internal/relay"
)

// ErrNoWebhook is returned by Resend when no relay URL is configured; the
// handler turns it into a user-visible message rather than a silent no-op.
var ErrNoWebhook = errors.New("no webhook URL configured")

// Store is the slice of the inquiry store the view consumes.
type Store interface {
	AllByCreatedDesc(ctx context.Context) ([]inquiry.Inquiry, error)
	SetHandled(ctx context.Context, id string, handled bool) error
	Get(ctx context.Context, id string) (*inquiry.Inquiry, error)
}

// View mirrors the remote store for the admin surface.  Create with
// NewView, then Start; Close releases the feed subscription.
type View struct {
	store    Store
	feed     *inquiry.Feed
	notifier *relay.Notifier
	settings *relay.Settings
	log      *zap.SugaredLogger
	debounce time.Duration

	mu   sync.RWMutex
	rows []inquiry.Inquiry

	sub *inquiry.Subscription
	sf  singleflight.Group
}

// NewView wires the view.  settings carries the webhook configuration for
// Resend, threaded explicitly like everywhere else.
func NewView(store Store, feed *inquiry.Feed, notifier *relay.Notifier, settings *relay.Settings, log *zap.SugaredLogger) *View {
	return &View{
		store:    store,
		feed:     feed,
		notifier: notifier,
		settings: settings,
		log:      log,
		debounce: 250 * time.Millisecond,
	}
}

// Start subscribes to the change feed, performs the initial bulk read, and
// launches the coordinator.  The subscription precedes the read so a write
// racing the startup shows up as a pending notification, not a gap.
func (v *View) Start(ctx context.Context) error {
	v.sub = v.feed.Subscribe()
	if err := v.Refresh(ctx); err != nil {
		v.sub.Release()
		return err
	}
	go v.watch(ctx)
	return nil
}

// Close releases the feed subscription.  Safe to call more than once.
func (v *View) Close() {
	if v.sub != nil {
		v.sub.Release()
	}
}

// watch is the coordinator loop: one debounced full re-read per burst of
// change notifications.
func (v *View) watch(ctx context.Context) {
	defer v.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-v.sub.C:
		}

		timer := time.NewTimer(v.debounce)
	window:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-v.sub.C: // burst, already covered by this window
			case <-timer.C:
				break window
			}
		}

		if err := v.Refresh(ctx); err != nil {
			v.log.Errorw("inquiry mirror refresh failed", "err", err)
		}
	}
}

// Refresh rebuilds the mirror from the store.  Concurrent callers share
// one read.  On failure the previous mirror stays in place.
func (v *View) Refresh(ctx context.Context) error {
	_, err, _ := v.sf.Do("refresh", func() (any, error) {
		rows, err := v.store.AllByCreatedDesc(ctx)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		v.rows = rows
		v.mu.Unlock()
		metrics.AdminRefreshTotal.Inc()
		return nil, nil
	})
	return err
}

// Inquiries returns a copy of the mirror, optionally narrowed to one
// service.  "all"/"All" (or empty) passes everything through; service
// names match exactly, case-sensitively, and order is preserved.
func (v *View) Inquiries(filterKey string) []inquiry.Inquiry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]inquiry.Inquiry, 0, len(v.rows))
	for _, row := range v.rows {
		if row.MatchesFilter(filterKey) {
			out = append(out, row)
		}
	}
	return out
}

// MarkHandled updates the remote record, then reflects the confirmed state
// into the mirror.  On failure the mirror is untouched and the error is
// returned for the handler to report.
func (v *View) MarkHandled(ctx context.Context, id string, handled bool) error {
	if err := v.store.SetHandled(ctx, id, handled); err != nil {
		return err
	}

	v.mu.Lock()
	for i := range v.rows {
		if v.rows[i].ID == id {
			v.rows[i].Handled = handled
			v.rows[i].Status = inquiry.StatusFor(handled)
			v.rows[i].UpdatedAt = time.Now().UTC()
		}
	}
	v.mu.Unlock()

	v.log.Infow("inquiry updated", "id", id, "handled", handled)
	return nil
}

// Resend republishes one inquiry through the webhook relay.  Read-only:
// the record is fetched fresh from the store and no state changes.
func (v *View) Resend(ctx context.Context, id string) error {
	cfg := v.settings.Current()
	if cfg.URL == "" {
		return ErrNoWebhook
	}

	rec, err := v.store.Get(ctx, id)
	if err != nil {
		return err
	}

	v.notifier.Notify(ctx, cfg.URL, relay.Envelope{
		Type:    relay.TypeResendInquiry,
		ToEmail: cfg.NotifyEmail,
		Payload: rec,
		Source:  "admin_resend",
	})
	return nil
}
