package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KeyzarRasya/lativa/internal/domain"
)

// SnapshotCache keeps the last good incident snapshot so read paths can
// stay populated while the primary store is unavailable.
type SnapshotCache struct {
	client *goredis.Client
	key    string
}

func NewSnapshotCache(r *Redis) *SnapshotCache {
	return &SnapshotCache{
		client: r.Client,
		key:    "incidents:snapshot",
	}
}

// Get returns the cached snapshot, or (nil, nil) when none is cached.
func (c *SnapshotCache) Get(ctx context.Context) ([]*domain.Incident, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var incidents []*domain.Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

func (c *SnapshotCache) Set(ctx context.Context, incidents []*domain.Incident, ttl time.Duration) error {
	b, err := json.Marshal(incidents)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, ttl).Err()
}
