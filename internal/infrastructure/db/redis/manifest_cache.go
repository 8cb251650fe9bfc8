package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ManifestCache keeps manifest bodies under manifest:<model_id>.
type ManifestCache struct {
	client *redis.Client
}

func NewManifestCache(client *redis.Client) *ManifestCache {
	return &ManifestCache{client: client}
}

// Get returns the cached body, or nil on a miss.
func (c *ManifestCache) Get(ctx context.Context, modelID string) ([]byte, error) {
	b, err := c.client.Get(ctx, manifestKey(modelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest cache get: %w", err)
	}
	return b, nil
}

func (c *ManifestCache) Set(ctx context.Context, modelID string, body []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, manifestKey(modelID), body, ttl).Err(); err != nil {
		return fmt.Errorf("manifest cache set: %w", err)
	}
	return nil
}

func manifestKey(modelID string) string {
	return "manifest:" + modelID
}
