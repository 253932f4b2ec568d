// internal/intake/handler.go
//
// Public HTTP surface for the inquiry form.
//
// Context
//   Two routes: POST /api/inquiries hands the decoded candidate to the
//   orchestrator, and GET /api/services exposes the closed catalog the
//   form renders its choices from.  The three submit outcomes map onto
//   distinct responses so the page can word its toast honestly:
//   201 stored, 202 fallback, 422 invalid.

package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sirstudio/leadcore/internal/requestinfo"
)

// Handler mounts the public intake routes.
type Handler struct {
	orch     *Orchestrator
	services []string
}

// NewHandler binds the orchestrator and the service catalog.
func NewHandler(orch *Orchestrator, services []string) *Handler {
	return &Handler{orch: orch, services: services}
}

// Routes returns the chi router for the public API, mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/inquiries", h.submit)
	r.Get("/services", h.listServices)
	return r
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var cand Candidate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&cand); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}

	res, err := h.orch.Submit(r.Context(), cand, submissionSource(r))
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": ve.Fields,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not save inquiry"})
		return
	}

	switch res.Status {
	case StatusFallback:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":  StatusFallback,
			"id":      res.Inquiry.ID,
			"message": "Saved locally; the database is unreachable, we will follow up.",
		})
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"status": StatusStored,
			"id":     res.Inquiry.ID,
		})
	}
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": h.services})
}

// submissionSource builds the envelope `source` tag: the submitting page
// when the browser sent one, plus the UA/geo summary from the enrichment
// middleware when present.
func submissionSource(r *http.Request) string {
	var parts []string
	if ref := r.Header.Get("Referer"); ref != "" {
		parts = append(parts, ref)
	} else if origin := r.Header.Get("Origin"); origin != "" {
		parts = append(parts, origin)
	}
	if tag := requestinfo.FromContext(r.Context()).Source(); tag != "" {
		parts = append(parts, tag)
	}
	return strings.Join(parts, " | ")
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
