// internal/admin/handler.go
//
// Admin HTTP surface.
//
/*
Context
--------
JSON endpoints over the mirror plus write-through mutations, the local
fallback queue, and the webhook settings.  Authentication is delegated to
the deployment's identity-aware proxy, same as the original dashboard
delegated it to its hosting platform; nothing here assumes a session.

Routes (mounted under /admin):

  GET  /inquiries            mirror, ?service= filter
  POST /inquiries/{id}/handled
  POST /inquiries/{id}/resend
  GET  /inquiries.csv        spreadsheet export
  GET  /fallback             stranded local-queue records
  POST /fallback/{id}/handled
  GET  /settings
  PUT  /settings
*/
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sirstudio/leadcore/internal/fallback"
	"github.com/sirstudio/leadcore/internal/inquiry"
	"github.com/sirstudio/leadcore/internal/relay"
)

// Handler mounts the admin routes.
type Handler struct {
	view     *View
	local    *fallback.Store
	settings *relay.Settings
}

// NewHandler binds the view, the local fallback store, and the settings.
func NewHandler(view *View, local *fallback.Store, settings *relay.Settings) *Handler {
	return &Handler{view: view, local: local, settings: settings}
}

// Routes returns the chi router for the admin API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/inquiries", h.listInquiries)
	r.Get("/inquiries.csv", h.exportCSV)
	r.Post("/inquiries/{id}/handled", h.markHandled)
	r.Post("/inquiries/{id}/resend", h.resend)
	r.Get("/fallback", h.listFallback)
	r.Post("/fallback/{id}/handled", h.markFallbackHandled)
	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.putSettings)
	return r
}

func (h *Handler) listInquiries(w http.ResponseWriter, r *http.Request) {
	rows := h.view.Inquiries(r.URL.Query().Get("service"))
	writeJSON(w, http.StatusOK, map[string]any{
		"inquiries": rows,
		"count":     len(rows),
	})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("sir-studio-inquiries-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := h.view.ExportCSV(w, r.URL.Query().Get("service")); err != nil {
		// Headers are gone; all we can do is log via the view's logger path.
		h.view.log.Errorw("csv export failed", "err", err)
	}
}

func (h *Handler) markHandled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Handled bool `json:"handled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.view.MarkHandled(r.Context(), id, body.Handled); err != nil {
		if errors.Is(err, inquiry.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown inquiry"})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "update failed, state unchanged"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"handled": body.Handled,
		"status":  inquiry.StatusFor(body.Handled),
	})
}

func (h *Handler) resend(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	switch err := h.view.Resend(r.Context(), id); {
	case errors.Is(err, ErrNoWebhook):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "configure a webhook URL first"})
	case errors.Is(err, inquiry.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown inquiry"})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "resend failed"})
	default:
		// Dispatch is best-effort; this acknowledges the attempt only.
		writeJSON(w, http.StatusAccepted, map[string]any{"id": id, "resent": true})
	}
}

func (h *Handler) listFallback(w http.ResponseWriter, r *http.Request) {
	rows := h.local.Inquiries()
	writeJSON(w, http.StatusOK, map[string]any{
		"inquiries": rows,
		"count":     len(rows),
		"note":      "records saved while the remote store was unreachable; not synced back automatically",
	})
}

func (h *Handler) markFallbackHandled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Handled bool `json:"handled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}
	if err := h.local.SetHandled(chi.URLParam(r, "id"), body.Handled); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "local update failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Current())
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var cfg fallback.WebhookConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}
	if err := h.settings.Save(cfg); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not persist settings"})
		return
	}
	writeJSON(w, http.StatusOK, h.settings.Current())
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
