package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/service"
	mock_service "github.com/KeyzarRasya/lativa/internal/service/mocks"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestIncidentCreate_FillsDefaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	feed := mock_service.NewMockChangeFeed(ctrl)

	var stored *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) error {
			stored = inc
			return nil
		}).
		Times(1)
	feed.EXPECT().Publish(gomock.Any()).Return(nil).Times(1)

	svc := service.NewIncidentService(repo, feed, nil, newTestLogger(), 0, false)

	id, err := svc.Create(context.Background(), domain.CreateIncidentRequest{
		Description: "Pohon tumbang menutup jalan utama",
		Coordinates: domain.Coordinates{Lat: -6.55, Lng: 107.44},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id == uuid.Nil || stored.ID != id {
		t.Fatalf("id not assigned: id=%s stored=%s", id, stored.ID)
	}
	if stored.Status != domain.StatusUnverified {
		t.Fatalf("default status: got=%q want=%q", stored.Status, domain.StatusUnverified)
	}
	if stored.Type != "Unverified" {
		t.Fatalf("derived type: got=%q want=Unverified", stored.Type)
	}
	if stored.Confidence != 0 {
		t.Fatalf("default confidence: got=%d want=0", stored.Confidence)
	}
}

func TestIncidentCreate_DerivedTypeFollowsStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	feed := mock_service.NewMockChangeFeed(ctrl)

	var stored *domain.Incident
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *domain.Incident) error {
			stored = inc
			return nil
		})
	feed.EXPECT().Publish(gomock.Any()).Return(nil)

	svc := service.NewIncidentService(repo, feed, nil, newTestLogger(), 0, false)

	if _, err := svc.Create(context.Background(), domain.CreateIncidentRequest{
		Status:      domain.StatusHandled,
		Coordinates: domain.Coordinates{Lat: -6.55, Lng: 107.44},
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stored.Type != "Handled" {
		t.Fatalf("type must follow status: got=%q", stored.Type)
	}
}

func TestIncidentCreate_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     domain.CreateIncidentRequest
		wantErr error
	}{
		{
			"lat out of range",
			domain.CreateIncidentRequest{Coordinates: domain.Coordinates{Lat: 91, Lng: 0}},
			e.ErrValidation,
		},
		{
			"bogus status",
			domain.CreateIncidentRequest{
				Status:      domain.IncidentStatus("active"),
				Coordinates: domain.Coordinates{Lat: 0, Lng: 0},
			},
			e.ErrInvalidStatus,
		},
		{
			"bogus zone",
			domain.CreateIncidentRequest{
				Zone:        domain.Zone("blue"),
				Coordinates: domain.Coordinates{Lat: 0, Lng: 0},
			},
			e.ErrInvalidZone,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockIncidentRepository(ctrl)
			svc := service.NewIncidentService(repo, nil, nil, newTestLogger(), 0, false)

			_, err := svc.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got=%v want=%v", err, tc.wantErr)
			}
		})
	}
}

func TestIncidentGetByID_AbsenceIsNotAnError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	id := uuid.New()
	repo.EXPECT().Get(gomock.Any(), id).Return(nil, e.ErrNotFound)

	svc := service.NewIncidentService(repo, nil, nil, newTestLogger(), 0, false)

	inc, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("absence must not error: %v", err)
	}
	if inc != nil {
		t.Fatalf("want nil incident, got=%+v", inc)
	}
}

func TestIncidentList_FallsBackToCachedSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	cache := mock_service.NewMockSnapshotCache(ctrl)

	cached := []*domain.Incident{{ID: uuid.New(), Status: domain.StatusVerified}}
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, e.ErrStoreUnavailable)
	cache.EXPECT().Get(gomock.Any()).Return(cached, nil)

	svc := service.NewIncidentService(repo, nil, cache, newTestLogger(), 0, true)

	got, err := svc.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("fallback must absorb the outage: %v", err)
	}
	if len(got) != 1 || got[0].ID != cached[0].ID {
		t.Fatalf("want cached snapshot, got=%+v", got)
	}
}

func TestIncidentList_FallsBackToSampleSet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	cache := mock_service.NewMockSnapshotCache(ctrl)

	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, e.ErrDeadline)
	cache.EXPECT().Get(gomock.Any()).Return(nil, nil)

	svc := service.NewIncidentService(repo, nil, cache, newTestLogger(), 0, true)

	got, err := svc.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != len(service.SampleIncidents()) {
		t.Fatalf("want sample set, got %d incidents", len(got))
	}
}

func TestIncidentList_NoFallbackForOtherErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, e.ErrInternal)

	svc := service.NewIncidentService(repo, nil, nil, newTestLogger(), 0, true)

	// sampleFallback is on, but the cause is not an availability error.
	if _, err := svc.List(context.Background(), domain.ListFilter{}); !errors.Is(err, e.ErrInternal) {
		t.Fatalf("got=%v want=%v", err, e.ErrInternal)
	}
}

func TestIncidentList_RefreshesSnapshotOnWorkingSetRead(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	cache := mock_service.NewMockSnapshotCache(ctrl)

	incidents := []*domain.Incident{{ID: uuid.New()}}
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(incidents, nil)
	cache.EXPECT().Set(gomock.Any(), incidents, gomock.Any()).Return(nil).Times(1)

	svc := service.NewIncidentService(repo, nil, cache, newTestLogger(), 0, false)

	filter := domain.ListFilter{Limit: domain.WorkingSetLimit}
	if _, err := svc.List(context.Background(), filter); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestIncidentList_SmallLimitDoesNotTouchSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	// No Set expectation: a capped read must leave the cached fallback
	// snapshot intact.
	cache := mock_service.NewMockSnapshotCache(ctrl)

	repo.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]*domain.Incident{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	svc := service.NewIncidentService(repo, nil, cache, newTestLogger(), 0, false)

	if _, err := svc.List(context.Background(), domain.ListFilter{Limit: 2}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestIncidentListByBoundingBox_FallbackIsFiltered(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	cache := mock_service.NewMockSnapshotCache(ctrl)

	inside := &domain.Incident{ID: uuid.New(), Coordinates: domain.Coordinates{Lat: -6.5, Lng: 107.5}}
	outside := &domain.Incident{ID: uuid.New(), Coordinates: domain.Coordinates{Lat: 2, Lng: 99}}

	bounds := domain.BoundingBox{MinLat: -7, MaxLat: -6, MinLng: 107, MaxLng: 108}
	repo.EXPECT().ListByBoundingBox(gomock.Any(), bounds).Return(nil, e.ErrStoreUnavailable)
	cache.EXPECT().Get(gomock.Any()).Return([]*domain.Incident{inside, outside}, nil)

	svc := service.NewIncidentService(repo, nil, cache, newTestLogger(), 0, false)

	got, err := svc.ListByBoundingBox(context.Background(), bounds)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Fatalf("fallback must keep only in-bounds records: got=%+v", got)
	}
}

func TestIncidentUpdate_ValidatesPointers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	svc := service.NewIncidentService(repo, nil, nil, newTestLogger(), 0, false)

	badStatus := domain.IncidentStatus("closed")
	err := svc.Update(context.Background(), uuid.New(), domain.UpdateIncidentRequest{Status: &badStatus})
	if !errors.Is(err, e.ErrInvalidStatus) {
		t.Fatalf("got=%v want=%v", err, e.ErrInvalidStatus)
	}
}

func TestIncidentDelete_PublishesChange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	feed := mock_service.NewMockChangeFeed(ctrl)

	id := uuid.New()
	repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
	feed.EXPECT().Publish(gomock.Any()).Return(nil).Times(1)

	svc := service.NewIncidentService(repo, feed, nil, newTestLogger(), 0, false)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
