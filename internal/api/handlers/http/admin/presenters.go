package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KeyzarRasya/lativa/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, e.ErrTransitionDenied):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "transition denied"})
	case errors.Is(err, e.ErrValidation),
		errors.Is(err, e.ErrInvalidStatus),
		errors.Is(err, e.ErrInvalidZone):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	case errors.Is(err, e.ErrStoreUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
