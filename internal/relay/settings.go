// internal/relay/settings.go
//
// Runtime webhook configuration, threaded into intake and admin.
//
/*
Context
--------
The webhook URL and notification recipient used to be read ad hoc from
ambient storage wherever they were needed.  Here they are loaded once at
boot—fallback-store values override YAML/env defaults—and handed to the
orchestrator and the admin view as an explicit constructor argument.  The
admin "save configuration" action is the only writer: it persists through
the fallback store and swaps the in-memory copy under lock.
*/
package relay

import (
	"sync"

	"github.com/sirstudio/leadcore/internal/fallback"
)

// Settings is the process-wide webhook configuration singleton.  Reads are
// cheap; writes happen only through Save.
type Settings struct {
	mu    sync.RWMutex
	cfg   fallback.WebhookConfig
	store *fallback.Store
}

// NewSettings merges persisted values over defaults.  A slot the operator
// has saved wins over YAML; an empty slot falls back to the default.
func NewSettings(store *fallback.Store, defaults fallback.WebhookConfig) *Settings {
	cfg := store.Config()
	if cfg.URL == "" {
		cfg.URL = defaults.URL
	}
	if cfg.NotifyEmail == "" {
		cfg.NotifyEmail = defaults.NotifyEmail
	}
	return &Settings{cfg: cfg, store: store}
}

// Current returns a copy of the live configuration.
func (s *Settings) Current() fallback.WebhookConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Save persists cfg and makes it visible to subsequent Current calls.
// On persistence failure the in-memory copy is left untouched.
func (s *Settings) Save(cfg fallback.WebhookConfig) error {
	if err := s.store.SetConfig(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
