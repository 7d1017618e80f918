package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/service"
	mock_service "github.com/KeyzarRasya/lativa/internal/service/mocks"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

func TestTransition_StatusAndTypeMoveTogether(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	feed := mock_service.NewMockChangeFeed(ctrl)

	id := uuid.New()
	repo.EXPECT().Get(gomock.Any(), id).Return(&domain.Incident{
		ID:     id,
		Status: domain.StatusUnverified,
		Type:   "Unverified",
	}, nil)

	var got domain.UpdateIncidentRequest
	repo.EXPECT().
		Update(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, req domain.UpdateIncidentRequest) error {
			got = req
			return nil
		}).
		Times(1)
	feed.EXPECT().Publish(gomock.Any()).Return(nil)

	svc := service.NewLifecycleService(repo, feed, service.AllowAny, newTestLogger())

	if err := svc.Transition(context.Background(), id, domain.StatusVerified); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status == nil || *got.Status != domain.StatusVerified {
		t.Fatalf("status not written: %+v", got)
	}
	if got.Type == nil || *got.Type != "Verified" {
		t.Fatalf("type must move with status in the same update: %+v", got)
	}
}

func TestTransition_BackwardMoveAllowedByDefault(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)

	id := uuid.New()
	repo.EXPECT().Get(gomock.Any(), id).Return(&domain.Incident{
		ID:     id,
		Status: domain.StatusResolved,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), id, gomock.Any()).Return(nil)

	svc := service.NewLifecycleService(repo, nil, nil, newTestLogger())

	if err := svc.Transition(context.Background(), id, domain.StatusUnverified); err != nil {
		t.Fatalf("resolved -> unverified must pass under the default policy: %v", err)
	}
}

func TestTransition_ForwardOnlyPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from domain.IncidentStatus
		to   domain.IncidentStatus
		deny bool
	}{
		{"single step forward", domain.StatusUnverified, domain.StatusVerified, false},
		{"multi step forward", domain.StatusUnverified, domain.StatusResolved, false},
		{"backward", domain.StatusHandled, domain.StatusVerified, true},
		{"same status", domain.StatusVerified, domain.StatusVerified, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mock_service.NewMockIncidentRepository(ctrl)
			id := uuid.New()
			repo.EXPECT().Get(gomock.Any(), id).Return(&domain.Incident{ID: id, Status: tc.from}, nil)
			if !tc.deny {
				repo.EXPECT().Update(gomock.Any(), id, gomock.Any()).Return(nil)
			}

			svc := service.NewLifecycleService(repo, nil, service.ForwardOnly, newTestLogger())

			err := svc.Transition(context.Background(), id, tc.to)
			if tc.deny {
				if !errors.Is(err, e.ErrTransitionDenied) {
					t.Fatalf("got=%v want=%v", err, e.ErrTransitionDenied)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestTransition_InvalidStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	svc := service.NewLifecycleService(repo, nil, nil, newTestLogger())

	err := svc.Transition(context.Background(), uuid.New(), domain.IncidentStatus("archived"))
	if !errors.Is(err, e.ErrInvalidStatus) {
		t.Fatalf("got=%v want=%v", err, e.ErrInvalidStatus)
	}
}

func TestReassignZone_TouchesZoneOnly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockIncidentRepository(ctrl)
	feed := mock_service.NewMockChangeFeed(ctrl)

	id := uuid.New()
	var got domain.UpdateIncidentRequest
	repo.EXPECT().
		Update(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, req domain.UpdateIncidentRequest) error {
			got = req
			return nil
		})
	feed.EXPECT().Publish(gomock.Any()).Return(nil)

	svc := service.NewLifecycleService(repo, feed, nil, newTestLogger())

	if err := svc.ReassignZone(context.Background(), id, domain.ZoneRed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Zone == nil || *got.Zone != domain.ZoneRed {
		t.Fatalf("zone not written: %+v", got)
	}
	if got.Status != nil || got.Type != nil {
		t.Fatalf("zone reassignment must not touch the workflow status: %+v", got)
	}
}
