package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"legalsim-backend/internal/documents"
)

const cacheKeyPrefix = "legalsim:analysis:"

// Snapshot is a completed document with its analysis. Both are immutable once completed.
type Snapshot struct {
	Document documents.Document `json:"document"`
	Analysis Analysis           `json:"analysis"`
}

// Cache holds completed snapshots keyed by document ID.
type Cache interface {
	Get(ctx context.Context, documentID string) (Snapshot, bool, error)
	Set(ctx context.Context, snap Snapshot) error
}

// RedisCache stores snapshots as JSON strings with a TTL.
type RedisCache struct {
	Client redis.Cmdable
	TTL    time.Duration
}

// NewRedisCache constructs a RedisCache.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func cacheKey(documentID string) string {
	return cacheKeyPrefix + documentID
}

// Get returns the cached snapshot, or false on a miss.
func (c *RedisCache) Get(ctx context.Context, documentID string) (Snapshot, bool, error) {
	payload, err := c.Client.Get(ctx, cacheKey(documentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// Set writes the snapshot under its document ID.
func (c *RedisCache) Set(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, cacheKey(snap.Document.ID), payload, c.TTL).Err()
}
