package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// ChangeFeed broadcasts "something in the incidents collection changed"
// notifications over a pub/sub channel. Subscribers re-query the store on
// every tick; the payload intentionally carries no diff.
type ChangeFeed struct {
	client  *redis.Client
	channel string
}

func NewChangeFeed(r *Redis, channel string) *ChangeFeed {
	return &ChangeFeed{client: r.Client, channel: channel}
}

func (f *ChangeFeed) Publish(ctx context.Context) error {
	return f.client.Publish(ctx, f.channel, "changed").Err()
}

// Listen attaches an independent pub/sub listener. Ticks arrive on the
// returned channel; release MUST be called by the consumer or the listener
// leaks. Multiple listeners are independent and never deduplicated.
func (f *ChangeFeed) Listen(ctx context.Context) (ticks <-chan struct{}, release func(), err error) {
	ps := f.client.Subscribe(ctx, f.channel)
	// Force the subscription onto the wire before the caller relies on it.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(out)
		ch := ps.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// Coalesce: one pending tick is enough, the consumer
				// re-reads the whole current state anyway.
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var released bool
	release = func() {
		if released {
			return
		}
		released = true
		close(done)
		_ = ps.Close()
	}
	return out, release, nil
}
