package public

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/middleware"
	"github.com/KeyzarRasya/lativa/internal/service"
	"github.com/KeyzarRasya/lativa/internal/vision"
	"github.com/KeyzarRasya/lativa/pkg/validator"
)

// VideoChecker runs attached evidence through the external analysis
// endpoint. Optional; a nil checker disables the evidence route.
type VideoChecker interface {
	CheckVideo(ctx context.Context, filename string, video io.Reader) (*vision.CheckResult, error)
}

type Handler struct {
	logger   *slog.Logger
	svc      *service.Service
	vision   VideoChecker
	upgrader websocket.Upgrader
}

func NewHandler(logger *slog.Logger, svc *service.Service, videoChecker VideoChecker) *Handler {
	return &Handler{
		logger: logger,
		svc:    svc,
		vision: videoChecker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) IncidentList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentList", slog.String("query", r.URL.RawQuery))

	filter, err := listFilterFromQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	incidents, err := h.svc.Incidents.List(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

func (h *Handler) IncidentGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	incident, err := h.svc.Incidents.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if incident == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, incident)
}

func (h *Handler) IncidentsByArea(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	bounds, err := boundsFromQuery(r)
	if err != nil {
		l.Warn("invalid bounds", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	incidents, err := h.svc.Incidents.ListByBoundingBox(r.Context(), bounds)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

// IncidentWatch upgrades to a websocket and streams whole-result-set
// snapshots: one on attach, then one per change. The subscription is
// released on any exit path.
func (h *Handler) IncidentWatch(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	filter, err := listFilterFromQuery(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	// SnapshotFunc runs on the subscription's own goroutine, so writing
	// to the conn here needs no extra locking.
	unsubscribe, errs, err := h.svc.Subscriptions.Subscribe(r.Context(), filter, func(incidents []*domain.Incident) {
		if werr := conn.WriteJSON(map[string]any{
			"incidents": incidents,
			"count":     len(incidents),
		}); werr != nil {
			l.Debug("watch write failed", slog.String("error", werr.Error()))
		}
	})
	if err != nil {
		l.Error("subscribe failed", slog.Any("error", err))
		_ = conn.Close()
		return
	}
	defer unsubscribe()
	defer conn.Close()

	go func() {
		for serr := range errs {
			l.Warn("watch subscription error", slog.Any("error", serr))
		}
	}()

	// Block on the read side to notice the peer going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			l.Debug("watch client disconnected", slog.String("error", err.Error()))
			return
		}
	}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats.Snapshot(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

type SubmitReportRequest struct {
	Coordinates *domain.Coordinates `json:"coordinates" validate:"required"`
	Address     string              `json:"address"`
	Description string              `json:"description" validate:"required"`
	Zone        domain.Zone         `json:"zone" validate:"omitempty,zone"`
}

// ReportSubmit runs the reporting workflow server-side: capture the
// submitted coordinate, resolve an address when the reporter left it
// blank, then pass the form through the validation gate.
func (h *Handler) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	form := domain.NewReportForm()
	if req.Zone != "" {
		form.Zone = req.Zone
	}
	form.Description = req.Description

	if err := h.svc.Reports.SetLocation(r.Context(), &form, *req.Coordinates); err != nil {
		h.handleError(w, r, err)
		return
	}
	if req.Address != "" {
		// Reporter-edited address wins over the geocoded one.
		form.Address = req.Address
	}

	reporterID := ""
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		reporterID = sess.User.ID.String()
	}

	id, err := h.svc.Reports.Submit(r.Context(), &form, reporterID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report submitted", slog.String("id", id.String()))
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// ReportEvidenceCheck lets a reporter pre-check attached video evidence
// before submitting. The verdict is informational; submission never blocks
// on it.
func (h *Handler) ReportEvidenceCheck(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	if h.vision == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "evidence check not configured"})
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video file required"})
		return
	}
	defer file.Close()

	result, err := h.vision.CheckVideo(r.Context(), header.Filename, file)
	if err != nil {
		l.Warn("evidence check failed", slog.Any("error", err))
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": "evidence check failed"})
		return
	}

	l.Info("evidence checked",
		slog.String("filename", header.Filename),
		slog.String("detection", result.Detection),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) AuthRegister(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Self-service registration never grants admin.
	req.Role = domain.RoleUser

	user, err := h.svc.Auth.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("user registered", slog.String("username", user.Username))
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sess, err := h.svc.Auth.Login(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.svc.Auth.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AuthMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	h.writeJSON(w, http.StatusOK, sess.User)
}
