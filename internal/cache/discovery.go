// discovery.go provides a Valkey-backed cache for discovery collection
// listings. Generated collections change only when a curation run replaces
// them, so listings are cached with a short TTL and invalidated explicitly
// after each generation run.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"glowwwmarket/internal/models"
)

const (
	// discoveryKeyPrefix is the Valkey key prefix for cached collection lists.
	discoveryKeyPrefix = "discovery:"

	// DefaultDiscoveryTTL is how long a collection listing stays cached.
	DefaultDiscoveryTTL = 5 * time.Minute
)

// DiscoveryCache manages cached collection listings in Valkey.
type DiscoveryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDiscoveryCache creates a discovery cache backed by the given Valkey client.
func NewDiscoveryCache(client *redis.Client, ttl time.Duration) *DiscoveryCache {
	if ttl == 0 {
		ttl = DefaultDiscoveryTTL
	}
	return &DiscoveryCache{client: client, ttl: ttl}
}

// Get retrieves a cached collection listing. Returns false on miss or on
// any cache error; a broken cache never breaks a read.
func (dc *DiscoveryCache) Get(ctx context.Context, key string) ([]*models.Collection, bool) {
	raw, err := dc.client.Get(ctx, discoveryKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("discovery cache get error", "key", key, "error", err)
		return nil, false
	}
	var collections []*models.Collection
	if err := json.Unmarshal(raw, &collections); err != nil {
		slog.Warn("discovery cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("discovery cache hit", "key", key)
	return collections, true
}

// Set stores a collection listing with the configured TTL.
func (dc *DiscoveryCache) Set(ctx context.Context, key string, collections []*models.Collection) {
	raw, err := json.Marshal(collections)
	if err != nil {
		slog.Warn("discovery cache encode error", "key", key, "error", err)
		return
	}
	if err := dc.client.Set(ctx, discoveryKeyPrefix+key, raw, dc.ttl).Err(); err != nil {
		slog.Warn("discovery cache set error", "key", key, "error", err)
	}
}

// Invalidate removes cached listings after a curation run replaced their
// underlying collections.
func (dc *DiscoveryCache) Invalidate(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = discoveryKeyPrefix + k
	}
	if err := dc.client.Del(ctx, prefixed...).Err(); err != nil {
		slog.Warn("discovery cache invalidate error", "keys", keys, "error", err)
	}
	slog.Debug("discovery cache invalidated", "keys", keys)
}
