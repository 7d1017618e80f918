package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/validator"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go

// IncidentAdmin is the triage surface: partial merge, hard delete.
type IncidentAdmin interface {
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Lifecycle owns the status state machine and the independent zone
// classification.
type Lifecycle interface {
	Transition(ctx context.Context, id uuid.UUID, newStatus domain.IncidentStatus) error
	ReassignZone(ctx context.Context, id uuid.UUID, zone domain.Zone) error
}

type Handler struct {
	logger    *slog.Logger
	Incidents IncidentAdmin
	Lifecycle Lifecycle
}

func NewHandler(logger *slog.Logger, incidents IncidentAdmin, lifecycle Lifecycle) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
		Lifecycle: lifecycle,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) IncidentUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.Incidents.Update(r.Context(), id, req); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident updated", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IncidentTransition(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.Lifecycle.Transition(r.Context(), id, req.Status); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident transitioned",
		slog.String("id", id.String()),
		slog.String("status", string(req.Status)),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IncidentReassignZone(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.ReassignZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.Lifecycle.ReassignZone(r.Context(), id, req.Zone); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident zone reassigned",
		slog.String("id", id.String()),
		slog.String("zone", string(req.Zone)),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IncidentDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.Incidents.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
