// internal/admin/csv.go
//
// CSV export of the mirror.
//
// Context
//   Operators pull the inquiry list into spreadsheets.  Column order is
//   fixed and free-text fields are RFC-4180 quoted by encoding/csv, so a
//   message containing commas or quotes never breaks column alignment.

package admin

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// csvHeader is the fixed column order of every export.
var csvHeader = []string{
	"id", "name", "email", "phone", "service", "message",
	"status", "handled", "created", "updated",
}

// ExportCSV streams the filtered-or-full mirror as CSV.
func (v *View) ExportCSV(w io.Writer, filterKey string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range v.Inquiries(filterKey) {
		rec := []string{
			row.ID,
			row.Name,
			row.Email,
			row.Phone,
			row.Service,
			row.Message,
			row.Status,
			strconv.FormatBool(row.Handled),
			row.CreatedAt.UTC().Format(time.RFC3339),
			row.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
