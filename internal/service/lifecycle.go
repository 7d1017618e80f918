package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

// TransitionPolicy decides whether a status move is legal. The product
// currently allows any move in any direction; the predicate exists so a
// stricter policy can be swapped in without touching the service.
type TransitionPolicy func(from, to domain.IncidentStatus) bool

func AllowAny(_, _ domain.IncidentStatus) bool { return true }

// ForwardOnly permits only unverified -> verified -> handled -> resolved,
// one or more steps at a time. Not active by default.
func ForwardOnly(from, to domain.IncidentStatus) bool {
	rank := map[domain.IncidentStatus]int{
		domain.StatusUnverified: 0,
		domain.StatusVerified:   1,
		domain.StatusHandled:    2,
		domain.StatusResolved:   3,
	}
	return rank[to] > rank[from]
}

type LifecycleService struct {
	repo   IncidentRepository
	feed   ChangeFeed
	policy TransitionPolicy
	logger *slog.Logger
}

func NewLifecycleService(repo IncidentRepository, feed ChangeFeed, policy TransitionPolicy, logger *slog.Logger) *LifecycleService {
	if policy == nil {
		policy = AllowAny
	}
	return &LifecycleService{repo: repo, feed: feed, policy: policy, logger: logger}
}

// Transition moves an incident to newStatus and rewrites the derived type
// in the same repository update, so no observer ever sees the pair
// desynchronized.
func (s *LifecycleService) Transition(ctx context.Context, id uuid.UUID, newStatus domain.IncidentStatus) error {
	const op = "service.Lifecycle.Transition"

	if !newStatus.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidStatus)
	}

	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy(inc.Status, newStatus) {
		return fmt.Errorf("%s: %s -> %s: %w", op, inc.Status, newStatus, e.ErrTransitionDenied)
	}

	newType := domain.TypeForStatus(newStatus)
	if err := s.repo.Update(ctx, id, domain.UpdateIncidentRequest{
		Status: &newStatus,
		Type:   &newType,
	}); err != nil {
		return err
	}
	s.notifyChanged(ctx)

	s.logger.Info("incident transitioned",
		slog.String("id", id.String()),
		slog.String("from", string(inc.Status)),
		slog.String("to", string(newStatus)),
	)
	return nil
}

// ReassignZone changes the danger-level classification only. Orthogonal to
// the workflow status; no type implications.
func (s *LifecycleService) ReassignZone(ctx context.Context, id uuid.UUID, zone domain.Zone) error {
	const op = "service.Lifecycle.ReassignZone"

	if !zone.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidZone)
	}

	if err := s.repo.Update(ctx, id, domain.UpdateIncidentRequest{Zone: &zone}); err != nil {
		return err
	}
	s.notifyChanged(ctx)

	s.logger.Info("incident zone reassigned",
		slog.String("id", id.String()),
		slog.String("zone", string(zone)),
	)
	return nil
}

func (s *LifecycleService) notifyChanged(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx); err != nil {
		s.logger.Warn("change feed publish failed", slog.Any("error", err))
	}
}
