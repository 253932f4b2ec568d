// internal/inquiry/store.go
//
// Remote inquiry store over sqlx + MySQL.
//
/*
Context
--------
The authoritative home of every inquiry that made it past the orchestrator.
Four operations, matching what the callers need and nothing more: Insert,
AllByCreatedDesc, SetHandled, and Get.  Each successful write publishes to
the change feed so the admin mirror re-reads.

IDs are generated here (UUID v4), not by callers: fallback-local records
mint their own ids in internal/fallback, and the two id spaces never mix.

Timestamps are stored in UTC.  `updated_at` is touched on every mutation;
`created_at` never changes after Insert.
*/
package inquiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when an id does not match any stored inquiry.
var ErrNotFound = errors.New("inquiry not found")

// Store wraps the `inquiries` table.  Safe for concurrent use; the feed may
// be nil in tests that do not care about notifications.
type Store struct {
	db   *sqlx.DB
	feed *Feed
	now  func() time.Time
}

// NewStore binds a Store to a connection pool and a change feed.
func NewStore(db *sqlx.DB, feed *Feed) *Store {
	return &Store{db: db, feed: feed, now: func() time.Time { return time.Now().UTC() }}
}

// Insert writes a new pending inquiry and fills in its server-generated
// fields (ID, Status, Handled, CreatedAt, UpdatedAt) on success.
func (s *Store) Insert(ctx context.Context, inq *Inquiry) error {
	now := s.now()
	inq.ID = uuid.NewString()
	inq.Handled = false
	inq.Status = StatusPending
	inq.CreatedAt = now
	inq.UpdatedAt = now

	const q = `
        INSERT INTO inquiries
               (id, name, email, phone, service, message, status, handled,
                created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		inq.ID, inq.Name, inq.Email, inq.Phone, inq.Service, inq.Message,
		inq.Status, inq.Handled, inq.CreatedAt, inq.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}

	s.publish()
	return nil
}

// AllByCreatedDesc returns every inquiry, newest first.  The admin mirror
// is rebuilt from this on every change-feed notification.
func (s *Store) AllByCreatedDesc(ctx context.Context) ([]Inquiry, error) {
	const q = `
        SELECT id, name, email, phone, service, message, status, handled,
               created_at, updated_at
        FROM   inquiries
        ORDER  BY created_at DESC`
	var rows []Inquiry
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select inquiries: %w", err)
	}
	return rows, nil
}

// Get fetches a single inquiry by id.
func (s *Store) Get(ctx context.Context, id string) (*Inquiry, error) {
	const q = `
        SELECT id, name, email, phone, service, message, status, handled,
               created_at, updated_at
        FROM   inquiries
        WHERE  id = ?
        LIMIT  1`
	var rec Inquiry
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return &rec, nil
}

// SetHandled flips the handled flag and the derived status in one update.
// Returns ErrNotFound when the id matches no row, so the admin view can
// report the miss instead of silently no-opping.
func (s *Store) SetHandled(ctx context.Context, id string, handled bool) error {
	const q = `
        UPDATE inquiries
        SET    handled = ?, status = ?, updated_at = ?
        WHERE  id = ?`
	res, err := s.db.ExecContext(ctx, q, handled, StatusFor(handled), s.now(), id)
	if err != nil {
		return fmt.Errorf("update inquiry %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// The driver counts rows changed, not rows matched, so writing a
		// value the row already holds looks the same as a missing row.
		// Only report ErrNotFound when the row really is absent.
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}

	s.publish()
	return nil
}

func (s *Store) publish() {
	if s.feed != nil {
		s.feed.Publish()
	}
}
