package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/service"
	mock_service "github.com/KeyzarRasya/lativa/internal/service/mocks"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

func TestStatsSnapshot_AggregatesWorkingSet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := mock_service.NewMockIncidentLister(ctrl)
	lister.EXPECT().
		List(gomock.Any(), domain.ListFilter{Limit: domain.WorkingSetLimit}).
		Return([]*domain.Incident{
			{Status: domain.StatusVerified, Zone: domain.ZoneRed, Confidence: 80},
			{Status: domain.StatusResolved, Confidence: 60},
		}, nil)

	svc := service.NewStatsService(lister)

	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := domain.IncidentStats{
		Total:             2,
		Verified:          1,
		Resolved:          1,
		RedZone:           1,
		YellowZone:        1,
		AverageConfidence: 70,
	}
	if got != want {
		t.Fatalf("got=%+v want=%+v", got, want)
	}
}

func TestStatsSnapshot_EmptyWorkingSet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := mock_service.NewMockIncidentLister(ctrl)
	lister.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	svc := service.NewStatsService(lister)

	got, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != (domain.IncidentStats{}) {
		t.Fatalf("empty set must be all zeroes: %+v", got)
	}
}

func TestStatsSnapshot_ListFailurePropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := mock_service.NewMockIncidentLister(ctrl)
	lister.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, e.ErrStoreUnavailable)

	svc := service.NewStatsService(lister)

	if _, err := svc.Snapshot(context.Background()); !errors.Is(err, e.ErrStoreUnavailable) {
		t.Fatalf("got=%v want=%v", err, e.ErrStoreUnavailable)
	}
}
