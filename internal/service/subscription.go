package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KeyzarRasya/lativa/internal/domain"
)

// SnapshotFunc receives the entire current result set on every delivery,
// never a diff. Consumers replace their local view wholesale.
type SnapshotFunc func(incidents []*domain.Incident)

// Subscriptions implements the live feed: each Subscribe attaches an
// independent change-feed listener and re-runs the same filter/order/cap
// query on every notification. Subscriptions are never deduplicated.
type Subscriptions struct {
	repo   IncidentRepository
	feed   ChangeFeed
	logger *slog.Logger
}

func NewSubscriptions(repo IncidentRepository, feed ChangeFeed, logger *slog.Logger) *Subscriptions {
	return &Subscriptions{repo: repo, feed: feed, logger: logger}
}

// Subscribe delivers an initial snapshot, then one snapshot per change
// notification. Query failures go to the returned error channel and do not
// terminate the subscription; the consumer decides whether to unsubscribe.
// The error channel is closed once the subscription ends, so consumers may
// range over it.
//
// The returned unsubscribe func MUST be called on every exit path of the
// consumer's lifetime, or the underlying listener leaks. It is safe to call
// more than once.
func (s *Subscriptions) Subscribe(ctx context.Context, filter domain.ListFilter, fn SnapshotFunc) (unsubscribe func(), errs <-chan error, err error) {
	subCtx, cancel := context.WithCancel(ctx)

	ticks, release, err := s.feed.Listen(subCtx)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	// Buffered and lossy: a slow consumer drops older errors rather than
	// blocking delivery.
	errCh := make(chan error, 4)

	deliver := func() {
		incidents, qerr := s.repo.List(subCtx, filter)
		if qerr != nil {
			s.logger.Warn("subscription query failed", slog.Any("error", qerr))
			select {
			case errCh <- qerr:
			default:
			}
			return
		}
		fn(incidents)
	}

	go func() {
		// Sole sender; closing lets consumers range over errs without
		// leaking a goroutine after unsubscribe.
		defer close(errCh)
		deliver()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				deliver()
			}
		}
	}()

	var once sync.Once
	unsubscribe = func() {
		once.Do(func() {
			cancel()
			release()
		})
	}
	return unsubscribe, errCh, nil
}
