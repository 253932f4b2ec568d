// internal/inquiry/model.go
//
// Inquiry entity and service catalog.
//
// Context
// -------
// An Inquiry is one submitted lead: who asked, how to reach them, which
// service they want, and whether an operator has dealt with it.  The row
// lives in the remote `inquiries` table once written there; fallback copies
// use the same shape.  `status` is never set independently; it is derived
// from `handled` on every mutation.
//
// Schema reference (2026-08-29)
//
//	CREATE TABLE inquiries (
//	    id          CHAR(36)      PRIMARY KEY,
//	    name        VARCHAR(256)  NOT NULL,
//	    email       VARCHAR(256)  NOT NULL,
//	    phone       VARCHAR(64)   NOT NULL DEFAULT '',
//	    service     VARCHAR(128)  NOT NULL,
//	    message     TEXT          NOT NULL,
//	    status      VARCHAR(16)   NOT NULL DEFAULT 'pending',
//	    handled     TINYINT(1)    NOT NULL DEFAULT 0,
//	    created_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    KEY idx_inquiries_created (created_at)
//	);
//
// Notes
// -----
// • `id` is a UUID minted server-side on insert, never by the client.
// • `phone` and `message` are optional on the wire but NOT NULL here;
//   absent values store as the empty string.
// • Reads order on `created_at DESC`, hence the secondary index.
package inquiry

import "time"

// Status values.  The admin view flips records between the two; there is no
// terminal state.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// FilterAll is the admin filter sentinel that matches every service.  Both
// spellings are accepted; service names themselves match case-sensitively.
const FilterAll = "all"

// Inquiry mirrors one row in the persistent `inquiries` table.
type Inquiry struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Phone     string    `db:"phone"      json:"phone,omitempty"`
	Service   string    `db:"service"    json:"service"`
	Message   string    `db:"message"    json:"message,omitempty"`
	Status    string    `db:"status"     json:"status"`
	Handled   bool      `db:"handled"    json:"handled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StatusFor derives the status string from the handled flag.
func StatusFor(handled bool) string {
	if handled {
		return StatusCompleted
	}
	return StatusPending
}

// MatchesFilter reports whether the record passes the admin service filter.
func (i Inquiry) MatchesFilter(key string) bool {
	if key == "" || key == FilterAll || key == "All" {
		return true
	}
	return i.Service == key
}
