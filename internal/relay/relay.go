// internal/relay/relay.go
//
// Webhook relay: best-effort outbound notification.
//
/*
Context
--------
On every stored inquiry (and on admin resend) leadcore POSTs a JSON
envelope to the configured automation endpoint, which turns it into an
email downstream.  The relay is an at-most-once hint channel: a dispatch
that leaves this process without a local error is "success," delivery is
never confirmed, and nothing is retried.  Upgrading to at-least-once would
need idempotency keys on the receiving automation first.

Notify therefore swallows every failure—logged and counted, never
propagated—so the primary write path can never be dragged down by a dead
webhook.  Tests exercise the unexported send, which does return the error.
*/
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sirstudio/leadcore/internal/metrics"
)

// Envelope types understood by the downstream automation.
const (
	TypeLeadInquiry   = "lead_inquiry"    // new submission
	TypeResendInquiry = "resend_inquiry"  // operator-triggered republish
)

// Envelope is the wire format POSTed to the webhook target.
type Envelope struct {
	Type    string `json:"type"`
	ToEmail string `json:"toEmail"`
	Payload any    `json:"payload"`
	Source  string `json:"source,omitempty"`
}

// Notifier dispatches envelopes.  Safe for concurrent use.
type Notifier struct {
	client *http.Client
}

// NewNotifier returns a Notifier with a bounded request timeout so a
// hanging endpoint cannot pin goroutines.
func NewNotifier() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 10 * time.Second}}
}

// Notify dispatches env to url best-effort.  Failures are logged and
// counted; the caller never sees them.  A blank url is a silent no-op so
// call sites stay unconditional.
func (n *Notifier) Notify(ctx context.Context, url string, env Envelope) {
	if url == "" {
		return
	}
	metrics.RelayDispatchTotal.Inc()
	if err := n.send(ctx, url, env); err != nil {
		metrics.RelayFailuresTotal.Inc()
		zap.S().Warnw("webhook relay failed",
			"type", env.Type, "to", env.ToEmail, "err", err)
		return
	}
	zap.S().Infow("webhook relayed", "type", env.Type, "to", env.ToEmail)
}

// send performs the actual POST.  Exposed to tests via the package; the
// returned error is a local dispatch failure or a non-2xx hint, never
// proof about delivery.
func (n *Notifier) send(ctx context.Context, url string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook endpoint returned %s", resp.Status)
	}
	return nil
}
