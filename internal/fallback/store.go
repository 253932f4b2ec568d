// internal/fallback/store.go
//
// Local fallback store: durable, synchronous, process-local key/value slots.
//
/*
Context
--------
When the remote inquiry store is unreachable the orchestrator degrades to
writing the record here, so the lead is not lost.  The same file also holds
the webhook configuration so it survives restarts.

The store is a single JSON file of named slots—`webhook_url`,
`notify_email`, and `inquiries`—mirroring the key/value shape of the
browser storage it replaces.  Writes go through a temp file and rename, so
a crash mid-write leaves the previous snapshot intact.

Known limits, accepted by design:

  • Single process.  Two writers interleaving read-modify-write cycles are
    last-writer-wins; nothing guards against it.
  • Fallback records are orphaned.  Nothing reconciles them back to the
    remote store when connectivity returns; the admin surface lists them so
    an operator can chase the leads by hand.

A corrupt or absent slot reads as empty, never as an error—degrading to a
fresh queue beats refusing to accept the next lead.
*/
package fallback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/metrics"
)

// Slot names inside the store file.
const (
	slotWebhookURL  = "webhook_url"
	slotNotifyEmail = "notify_email"
	slotInquiries   = "inquiries"
)

// WebhookConfig is the persisted relay configuration singleton.
type WebhookConfig struct {
	URL         string `json:"webhook_url"`
	NotifyEmail string `json:"notify_email"`
}

// Store owns one JSON file.  All methods are synchronous and safe for
// concurrent use within the process.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open prepares a Store at path, creating the parent directory when needed.
// The file itself is created lazily on first write.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("fallback dir: %w", err)
	}
	s := &Store{path: path}
	metrics.FallbackQueueDepth.Set(float64(len(s.Inquiries())))
	return s, nil
}

//
// Webhook configuration slots
//

// Config returns the persisted webhook configuration.  Missing slots read
// as empty strings.
func (s *Store) Config() WebhookConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	var cfg WebhookConfig
	_ = json.Unmarshal(slots[slotWebhookURL], &cfg.URL)
	_ = json.Unmarshal(slots[slotNotifyEmail], &cfg.NotifyEmail)
	return cfg
}

// SetConfig overwrites both configuration slots.
func (s *Store) SetConfig(cfg WebhookConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	slots[slotWebhookURL], _ = json.Marshal(cfg.URL)
	slots[slotNotifyEmail], _ = json.Marshal(cfg.NotifyEmail)
	return s.save(slots)
}

//
// Inquiry queue slot
//

// Prepend pushes a record onto the front of the queue (most-recent-first),
// preserving whatever is already there.
func (s *Store) Prepend(rec inquiry.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	queue := decodeQueue(slots[slotInquiries])
	queue = append([]inquiry.Inquiry{rec}, queue...)

	slots[slotInquiries], _ = json.Marshal(queue)
	if err := s.save(slots); err != nil {
		return err
	}
	metrics.FallbackQueueDepth.Set(float64(len(queue)))
	return nil
}

// Inquiries returns the queue, most recently added first.
func (s *Store) Inquiries() []inquiry.Inquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeQueue(s.load()[slotInquiries])
}

// SetHandled map-replaces the matching record.  Unknown ids are a no-op,
// matching the remote store's tolerance on the admin's local view.
func (s *Store) SetHandled(id string, handled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.load()
	queue := decodeQueue(slots[slotInquiries])
	for i := range queue {
		if queue[i].ID == id {
			queue[i].Handled = handled
			queue[i].Status = inquiry.StatusFor(handled)
		}
	}

	slots[slotInquiries], _ = json.Marshal(queue)
	return s.save(slots)
}

//
// File plumbing
//

// load reads the slot map.  Absent or corrupt files read as empty.
func (s *Store) load() map[string]json.RawMessage {
	slots := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return slots
	}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return make(map[string]json.RawMessage)
	}
	return slots
}

// save writes the slot map atomically (temp file + rename).
func (s *Store) save(slots map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("fallback write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("fallback rename: %w", err)
	}
	return nil
}

func decodeQueue(raw json.RawMessage) []inquiry.Inquiry {
	if len(raw) == 0 {
		return nil
	}
	var queue []inquiry.Inquiry
	if err := json.Unmarshal(raw, &queue); err != nil {
		return nil
	}
	return queue
}
