package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/KeyzarRasya/lativa/internal/domain"
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
	case errors.Is(err, e.ErrValidation),
		errors.Is(err, e.ErrInvalidCoordinates),
		errors.Is(err, e.ErrInvalidStatus),
		errors.Is(err, e.ErrInvalidZone):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	case errors.Is(err, e.ErrPermissionDenied):
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "permission denied"})
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrUniqueViolation):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
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

func listFilterFromQuery(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()

	var filter domain.ListFilter
	if s := q.Get("status"); s != "" && s != domain.FilterAll {
		status := domain.IncidentStatus(s)
		if !status.Valid() {
			return filter, fmt.Errorf("invalid status %q", s)
		}
		filter.Status = status
	}
	if ob := q.Get("orderBy"); ob != "" {
		filter.OrderBy = ob
	}
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		filter.OrderDirection = domain.OrderAsc
	default:
		return filter, fmt.Errorf("order must be asc or desc")
	}
	if ls := q.Get("limit"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("invalid limit %q", ls)
		}
		if n > domain.WorkingSetLimit {
			n = domain.WorkingSetLimit
		}
		filter.Limit = n
	}
	return filter, nil
}

func boundsFromQuery(r *http.Request) (domain.BoundingBox, error) {
	q := r.URL.Query()

	parse := func(key string) (float64, error) {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s", key)
		}
		return v, nil
	}

	var bounds domain.BoundingBox
	var err error
	if bounds.MinLat, err = parse("minLat"); err != nil {
		return bounds, err
	}
	if bounds.MaxLat, err = parse("maxLat"); err != nil {
		return bounds, err
	}
	if bounds.MinLng, err = parse("minLng"); err != nil {
		return bounds, err
	}
	if bounds.MaxLng, err = parse("maxLng"); err != nil {
		return bounds, err
	}
	return bounds, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
