package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// IncidentRepository is the single writer boundary over the incidents
// collection. Everything above it holds read-only snapshots.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error)
	ListByBoundingBox(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Incident, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ChangeFeed carries change notifications between writers and live
// subscriptions. Payload-free: consumers re-read the whole current state.
type ChangeFeed interface {
	Publish(ctx context.Context) error
	Listen(ctx context.Context) (ticks <-chan struct{}, release func(), err error)
}

type SnapshotCache interface {
	Get(ctx context.Context) ([]*domain.Incident, error)
	Set(ctx context.Context, incidents []*domain.Incident, ttl time.Duration) error
}

// Geolocator is the device position source. One-shot, no cached positions;
// implementations fail with one of the three e.ErrGeo* kinds.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, coords domain.Coordinates) (string, error)
}

// IncidentCreator is the slice of the incident service the reporting
// workflow needs.
type IncidentCreator interface {
	Create(ctx context.Context, req domain.CreateIncidentRequest) (uuid.UUID, error)
}

type IncidentLister interface {
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error)
}

type Service struct {
	Incidents     *IncidentService
	Lifecycle     *LifecycleService
	Reports       *ReportService
	Stats         *StatsService
	Auth          *AuthService
	Subscriptions *Subscriptions
}

func NewService(
	incidents *IncidentService,
	lifecycle *LifecycleService,
	reports *ReportService,
	stats *StatsService,
	auth *AuthService,
	subscriptions *Subscriptions,
) *Service {
	return &Service{
		Incidents:     incidents,
		Lifecycle:     lifecycle,
		Reports:       reports,
		Stats:         stats,
		Auth:          auth,
		Subscriptions: subscriptions,
	}
}
