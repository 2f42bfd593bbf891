package escalation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

// Handler exposes coach-facing escalation endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an escalation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("escalation: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// List returns all escalations, most recent first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	escalations, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("escalation: failed to list", "error", err)
		http.Error(w, "failed to list escalations", http.StatusInternalServerError)
		return
	}
	if escalations == nil {
		escalations = []*Escalation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"escalations": escalations,
		"count":       len(escalations),
	})
}

// Resolve marks an escalation as handled by a coach.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "escalationID")
	if id == "" {
		http.Error(w, "escalation id required", http.StatusBadRequest)
		return
	}

	if err := h.service.Resolve(r.Context(), id); err != nil {
		if errors.Is(err, ErrEscalationNotFound) {
			http.Error(w, "escalation not found", http.StatusNotFound)
			return
		}
		h.logger.Error("escalation: failed to resolve", "error", err, "escalation_id", id)
		http.Error(w, "failed to resolve escalation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": StatusResolved})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
