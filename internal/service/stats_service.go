package service

import (
	"context"

	"github.com/KeyzarRasya/lativa/internal/domain"
)

// StatsService recomputes the summary counts over the current working set
// on demand. It holds no state of its own; consumers call Snapshot on
// every subscription update or poll.
type StatsService struct {
	lister IncidentLister
}

func NewStatsService(lister IncidentLister) *StatsService {
	return &StatsService{lister: lister}
}

func (s *StatsService) Snapshot(ctx context.Context) (domain.IncidentStats, error) {
	incidents, err := s.lister.List(ctx, domain.ListFilter{Limit: domain.WorkingSetLimit})
	if err != nil {
		return domain.IncidentStats{}, err
	}

	set := make([]domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		set = append(set, *inc)
	}
	return domain.Aggregate(set), nil
}
