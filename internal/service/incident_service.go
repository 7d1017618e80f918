package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

type IncidentService struct {
	repo           IncidentRepository
	feed           ChangeFeed
	cache          SnapshotCache
	logger         *slog.Logger
	snapshotTTL    time.Duration
	sampleFallback bool
}

func NewIncidentService(
	repo IncidentRepository,
	feed ChangeFeed,
	cache SnapshotCache,
	logger *slog.Logger,
	snapshotTTL time.Duration,
	sampleFallback bool,
) *IncidentService {
	if snapshotTTL <= 0 {
		snapshotTTL = 10 * time.Minute
	}
	return &IncidentService{
		repo:           repo,
		feed:           feed,
		cache:          cache,
		logger:         logger,
		snapshotTTL:    snapshotTTL,
		sampleFallback: sampleFallback,
	}
}

// Create persists a partial incident, filling the defaults: status
// unverified, type derived from status, confidence 0 when absent.
func (s *IncidentService) Create(ctx context.Context, req domain.CreateIncidentRequest) (uuid.UUID, error) {
	const op = "service.Incident.Create"

	if !req.Coordinates.Valid() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrValidation)
	}
	if req.Status != "" && !req.Status.Valid() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrInvalidStatus)
	}
	if req.Zone != "" && !req.Zone.Valid() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrInvalidZone)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusUnverified
	}
	incType := req.Type
	if incType == "" {
		incType = domain.TypeForStatus(status)
	}
	confidence := 0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	inc := &domain.Incident{
		ID:          uuid.New(),
		Type:        incType,
		Status:      status,
		Zone:        req.Zone,
		Location:    req.Location,
		Address:     req.Address,
		Description: req.Description,
		Coordinates: req.Coordinates,
		Confidence:  confidence,
		CreatedBy:   req.CreatedBy,
		Metadata:    req.Metadata,
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return uuid.Nil, err
	}
	s.notifyChanged(ctx)

	s.logger.Info("incident created",
		slog.String("id", inc.ID.String()),
		slog.String("status", string(inc.Status)),
		slog.String("zone", string(inc.EffectiveZone())),
	)
	return inc.ID, nil
}

// GetByID returns (nil, nil) when no record matches; absence is not an
// error on this path.
func (s *IncidentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return inc, nil
}

// List queries the store with the normalized filter. When the store is
// unreachable the read falls back to the last good cached snapshot, then
// to the built-in sample set, so consumers stay populated.
func (s *IncidentService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Incident, error) {
	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		if fallback, ok := s.readFallback(ctx, err); ok {
			return fallback, nil
		}
		return nil, err
	}

	// Keep the fallback snapshot warm on full working-set reads only; a
	// small explicit limit must not shrink the cached fallback.
	if s.cache != nil && filter.Status == "" && filter.Limit >= domain.WorkingSetLimit {
		if cerr := s.cache.Set(ctx, incidents, s.snapshotTTL); cerr != nil {
			s.logger.Warn("snapshot cache refresh failed", slog.Any("error", cerr))
		}
	}
	return incidents, nil
}

func (s *IncidentService) ListByBoundingBox(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Incident, error) {
	incidents, err := s.repo.ListByBoundingBox(ctx, bounds)
	if err != nil {
		fallback, ok := s.readFallback(ctx, err)
		if !ok {
			return nil, err
		}
		filtered := make([]*domain.Incident, 0, len(fallback))
		for _, inc := range fallback {
			if bounds.Contains(inc.Coordinates) {
				filtered = append(filtered, inc)
			}
		}
		return filtered, nil
	}
	return incidents, nil
}

func (s *IncidentService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateIncidentRequest) error {
	const op = "service.Incident.Update"

	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidStatus)
	}
	if req.Zone != nil && !req.Zone.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidZone)
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return err
	}
	s.notifyChanged(ctx)
	return nil
}

func (s *IncidentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyChanged(ctx)
	return nil
}

// notifyChanged is best-effort: a missed notification only delays
// subscribers until the next one, it never fails the write.
func (s *IncidentService) notifyChanged(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx); err != nil {
		s.logger.Warn("change feed publish failed", slog.Any("error", err))
	}
}

func (s *IncidentService) readFallback(ctx context.Context, cause error) ([]*domain.Incident, bool) {
	if !errors.Is(cause, e.ErrStoreUnavailable) && !errors.Is(cause, e.ErrDeadline) {
		return nil, false
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("snapshot cache read failed", slog.Any("error", err))
		} else if cached != nil {
			s.logger.Warn("store unavailable, serving cached snapshot",
				slog.Int("count", len(cached)), slog.Any("cause", cause))
			return cached, true
		}
	}

	if s.sampleFallback {
		samples := SampleIncidents()
		s.logger.Warn("store unavailable, serving sample set",
			slog.Int("count", len(samples)), slog.Any("cause", cause))
		return samples, true
	}
	return nil, false
}
