package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/service"
)

// SnapshotRefresher keeps the redis fallback snapshot warm by re-reading
// the working set on a fixed interval, independently of request traffic.
type SnapshotRefresher struct {
	repo     service.IncidentRepository
	cache    service.SnapshotCache
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger
}

func NewSnapshotRefresher(
	repo service.IncidentRepository,
	cache service.SnapshotCache,
	interval, ttl time.Duration,
	logger *slog.Logger,
) *SnapshotRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SnapshotRefresher{repo: repo, cache: cache, interval: interval, ttl: ttl, logger: logger}
}

func (w *SnapshotRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("snapshot refresher stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *SnapshotRefresher) refresh(ctx context.Context) {
	incidents, err := w.repo.List(ctx, domain.ListFilter{Limit: domain.WorkingSetLimit})
	if err != nil {
		w.logger.Warn("snapshot refresh query failed", slog.Any("error", err))
		return
	}
	if err := w.cache.Set(ctx, incidents, w.ttl); err != nil {
		w.logger.Warn("snapshot cache write failed", slog.Any("error", err))
		return
	}
	w.logger.Debug("snapshot refreshed", slog.Int("count", len(incidents)))
}
