// Package httpapi implements the JSON HTTP API of the tracker.
//
// Routes:
//
//	GET  /health                  → liveness
//	GET  /jobs                    → scored, filtered, sorted listings
//	GET  /jobs/filters            → choices for the exact-match filters
//	GET  /jobs/{id}               → one listing
//	GET  /jobs/{id}/status        → current status
//	POST /jobs/{id}/status        → change status
//	POST /jobs/{id}/save|unsave   → bookmark / drop bookmark
//	GET  /saved                   → bookmarked listings
//	GET  /history                 → status change log, newest first
//	GET  /preferences             → saved preferences
//	PUT  /preferences             → overwrite preferences
//	GET  /digest?date=            → stored digest (today by default)
//	POST /digest                  → generate and store today's digest
//	GET  /digest/text?date=       → stored digest as plain text
//	GET  /proof, PUT /proof       → proof artifact links
//	GET  /checklist, PUT /checklist
//	PUT  /checklist/{n}           → check or uncheck one item
//	POST /checklist/reset         → uncheck everything
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobmate/job-tracker/internal/prefs"
	"jobmate/job-tracker/internal/proof"
	"jobmate/job-tracker/internal/tracker"
)

// ─── Request types ───────────────────────────────────────────────────────────

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type preferencesRequest struct {
	RoleKeywords       string   `json:"roleKeywords" validate:"max=500"`
	PreferredLocations []string `json:"preferredLocations" validate:"max=50,dive,max=100"`
	PreferredMode      []string `json:"preferredMode" validate:"max=10,dive,max=50"`
	ExperienceLevel    string   `json:"experienceLevel" validate:"max=50"`
	Skills             string   `json:"skills" validate:"max=500"`
	MinMatchScore      *int     `json:"minMatchScore"`
}

func (r preferencesRequest) toPreferences() prefs.Preferences {
	p := prefs.Preferences{
		RoleKeywords:       r.RoleKeywords,
		PreferredLocations: r.PreferredLocations,
		PreferredMode:      r.PreferredMode,
		ExperienceLevel:    r.ExperienceLevel,
		Skills:             r.Skills,
		MinMatchScore:      prefs.DefaultMinMatchScore,
	}
	if r.MinMatchScore != nil {
		p.MinMatchScore = *r.MinMatchScore
	}
	return p
}

type checklistRequest struct {
	Items []bool `json:"items" validate:"required"`
}

type checklistItemRequest struct {
	Checked *bool `json:"checked" validate:"required"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	svc      *tracker.Service
	validate *validator.Validate
}

// NewHandler returns a configured Handler.
func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// RegisterRoutes mounts all tracker routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobAction)
	mux.HandleFunc("/saved", h.handleSaved)
	mux.HandleFunc("/history", h.handleHistory)
	mux.HandleFunc("/preferences", h.handlePreferences)
	mux.HandleFunc("/digest", h.handleDigest)
	mux.HandleFunc("/digest/text", h.handleDigestText)
	mux.HandleFunc("/proof", h.handleProof)
	mux.HandleFunc("/checklist", h.handleChecklist)
	mux.HandleFunc("/checklist/", h.handleChecklistItem)
}

// ─── Route dispatch ──────────────────────────────────────────────────────────

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "ok"})
}

// handleJobs handles GET /jobs
func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.listJobs(w, r)
}

// handleJobAction handles /jobs/filters, /jobs/{id} and /jobs/{id}/{action}
func (h *Handler) handleJobAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 2 && parts[1] == "filters" {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jsonOK(w, h.svc.FilterOptions())
		return
	}
	if len(parts) < 2 || len(parts) > 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		jsonError(w, fmt.Sprintf("invalid job id %q", parts[1]), http.StatusBadRequest)
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getJob(w, id)
		return
	}

	switch action := parts[2]; action {
	case "status":
		switch r.Method {
		case http.MethodGet:
			h.getStatus(w, r, id)
		case http.MethodPost:
			h.setStatus(w, r, id)
		default:
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	case "save", "unsave":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.toggleSaved(w, r, id, action == "save")
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

func (h *Handler) handleSaved(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, h.svc.SavedJobs(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, h.svc.History(r.Context()))
}

func (h *Handler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p, ok := h.svc.Preferences(r.Context())
		jsonOK(w, map[string]any{"preferences": p, "set": ok})
	case http.MethodPut:
		h.savePreferences(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDigest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, date, err := h.svc.Digest(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, map[string]any{"date": date, "jobs": entries})
	case http.MethodPost:
		entries, err := h.svc.GenerateDigest(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, map[string]any{"date": h.svc.Today(r.Context()), "jobs": entries})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDigestText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	text, err := h.svc.DigestText(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}

func (h *Handler) handleProof(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a := h.svc.Artifacts(r.Context())
		jsonOK(w, map[string]any{"artifacts": a, "allProvided": a.AllProvided()})
	case http.MethodPut:
		var a proof.Artifacts
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := h.svc.SetArtifacts(r.Context(), a); err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, map[string]any{"artifacts": a, "allProvided": a.AllProvided()})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jsonOK(w, h.svc.ChecklistSummary(r.Context()))
	case http.MethodPut:
		var body checklistRequest
		if err := h.decode(r, &body); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.svc.SetChecklist(r.Context(), body.Items); err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, h.svc.ChecklistSummary(r.Context()))
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleChecklistItem handles PUT /checklist/{n} and POST /checklist/reset
func (h *Handler) handleChecklistItem(w http.ResponseWriter, r *http.Request) {
	seg := strings.TrimPrefix(r.URL.Path, "/checklist/")
	if seg == "reset" {
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h.svc.ResetChecklist(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		jsonOK(w, h.svc.ChecklistSummary(r.Context()))
		return
	}

	idx, err := strconv.Atoi(seg)
	if err != nil {
		jsonError(w, "invalid checklist item", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodPut {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body checklistItemRequest
	if err := h.decode(r, &body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.ToggleChecklistItem(r.Context(), idx, *body.Checked); err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, h.svc.ChecklistSummary(r.Context()))
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// decode reads a JSON body into v and validates its struct tags.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	if err := h.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *tracker.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, tracker.ErrNoPreferences):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, tracker.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	default:
		slog.Error("request failed", "err", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
