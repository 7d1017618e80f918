package public_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/api/handlers/http/public"
	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/service"
	mock_service "github.com/KeyzarRasya/lativa/internal/service/mocks"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

// testHandler wires the public handler over real services backed by mocks,
// so request parsing, the workflow and error mapping run end to end.
func testHandler(t *testing.T, ctrl *gomock.Controller) (*public.Handler, *mock_service.MockIncidentRepository, *mock_service.MockGeocoder) {
	t.Helper()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	geocoder := mock_service.NewMockGeocoder(ctrl)

	incidents := service.NewIncidentService(repo, nil, nil, newTestLogger(), 0, false)
	lifecycle := service.NewLifecycleService(repo, nil, nil, newTestLogger())
	reports := service.NewReportService(incidents, service.NoDeviceGeolocator{}, geocoder, nil, newTestLogger())
	stats := service.NewStatsService(incidents)
	auth := service.NewAuthService(mock_service.NewMockUserRepository(ctrl), 0, newTestLogger())
	subs := service.NewSubscriptions(repo, mock_service.NewMockChangeFeed(ctrl), newTestLogger())

	svc := service.NewService(incidents, lifecycle, reports, stats, auth, subs)
	return public.NewHandler(newTestLogger(), svc, nil), repo, geocoder
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func TestIncidentList_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, _ := testHandler(t, ctrl)

	repo.EXPECT().
		List(gomock.Any(), domain.ListFilter{Status: domain.StatusVerified, Limit: 10}).
		Return([]*domain.Incident{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents?status=verified&limit=10", nil)
	rr := httptest.NewRecorder()

	h.IncidentList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeJSON[map[string]json.RawMessage](t, rr)
	var count int
	if err := json.Unmarshal(body["count"], &count); err != nil || count != 2 {
		t.Fatalf("count: got=%s", body["count"])
	}
}

func TestIncidentList_BadQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"unknown status", "status=active"},
		{"bad order", "order=sideways"},
		{"zero limit", "limit=0"},
		{"non-numeric limit", "limit=ten"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h, _, _ := testHandler(t, ctrl)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents?"+tc.query, nil)
			rr := httptest.NewRecorder()

			h.IncidentList(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got=%d want=%d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestIncidentGet_AbsentIs404(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, _ := testHandler(t, ctrl)

	id := uuid.New()
	repo.EXPECT().Get(gomock.Any(), id).Return(nil, e.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents/"+id.String(), nil)
	req = addChiURLParam(req, "id", id.String())
	rr := httptest.NewRecorder()

	h.IncidentGet(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got=%d want=%d", rr.Code, http.StatusNotFound)
	}
}

func TestIncidentsByArea_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, _ := testHandler(t, ctrl)

	bounds := domain.BoundingBox{MinLat: -7, MaxLat: -6, MinLng: 107, MaxLng: 108}
	repo.EXPECT().ListByBoundingBox(gomock.Any(), bounds).Return([]*domain.Incident{{ID: uuid.New()}}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/incidents/area?minLat=-7&maxLat=-6&minLng=107&maxLng=108", nil)
	rr := httptest.NewRecorder()

	h.IncidentsByArea(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestIncidentsByArea_MissingBound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _ := testHandler(t, ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents/area?minLat=-7&maxLat=-6", nil)
	rr := httptest.NewRecorder()

	h.IncidentsByArea(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}
}

func TestStats_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, _ := testHandler(t, ctrl)

	repo.EXPECT().
		List(gomock.Any(), domain.ListFilter{Limit: domain.WorkingSetLimit}).
		Return([]*domain.Incident{
			{Status: domain.StatusVerified, Zone: domain.ZoneRed, Confidence: 90},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rr := httptest.NewRecorder()

	h.Stats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	stats := decodeJSON[domain.IncidentStats](t, rr)
	if stats.Total != 1 || stats.Verified != 1 || stats.RedZone != 1 || stats.AverageConfidence != 90 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestReportSubmit_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, geocoder := testHandler(t, ctrl)

	geocoder.EXPECT().
		Reverse(gomock.Any(), domain.Coordinates{Lat: -6.555, Lng: 107.441}).
		Return("Jl. Veteran, Purwakarta", nil)

	var stored *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) error {
			stored = inc
			return nil
		})

	body := `{
		"coordinates": {"lat": -6.555, "lng": 107.441},
		"description": "Pohon tumbang menutup jalan utama dekat pasar",
		"zone": "red"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.ReportSubmit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	if stored.Address != "Jl. Veteran, Purwakarta" {
		t.Fatalf("geocoded address: got=%q", stored.Address)
	}
	if stored.Confidence != 85 || stored.Metadata["priority"] != "high" {
		t.Fatalf("red zone policy not applied: confidence=%d metadata=%v", stored.Confidence, stored.Metadata)
	}
}

func TestReportSubmit_ReporterAddressWins(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, repo, geocoder := testHandler(t, ctrl)

	geocoder.EXPECT().Reverse(gomock.Any(), gomock.Any()).Return("geocoded address", nil)

	var stored *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) error {
			stored = inc
			return nil
		})

	body := `{
		"coordinates": {"lat": -6.555, "lng": 107.441},
		"address": "Depan pasar lama, Jl. Veteran",
		"description": "Pohon tumbang menutup jalan utama dekat pasar"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.ReportSubmit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got=%d body=%s", rr.Code, rr.Body.String())
	}
	if stored.Address != "Depan pasar lama, Jl. Veteran" {
		t.Fatalf("edited address must win: got=%q", stored.Address)
	}
}

func TestReportSubmit_ShortDescriptionIs400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, geocoder := testHandler(t, ctrl)
	geocoder.EXPECT().Reverse(gomock.Any(), gomock.Any()).Return("Jl. Veteran", nil)

	body := `{
		"coordinates": {"lat": -6.555, "lng": 107.441},
		"description": "terlalu pendek"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.ReportSubmit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestReportSubmit_MissingCoordinatesIs400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _ := testHandler(t, ctrl)

	body := `{"description": "Pohon tumbang menutup jalan utama dekat pasar"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.ReportSubmit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rr.Code, http.StatusBadRequest)
	}
}

func TestAuthMe_Unauthenticated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _ := testHandler(t, ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rr := httptest.NewRecorder()

	h.AuthMe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=%d", rr.Code, http.StatusUnauthorized)
	}
}
