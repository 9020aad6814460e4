// discovery_test.go exercises the discovery cache against a real Valkey
// instance. Tests are skipped if Valkey is not available.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowwwmarket/internal/models"
)

func testCache(t *testing.T) *DiscoveryCache {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewDiscoveryCache(client, time.Minute)
}

func TestDiscoveryCacheRoundTrip(t *testing.T) {
	dc := testCache(t)
	ctx := context.Background()

	key := "test-" + uuid.NewString()[:8]
	t.Cleanup(func() { dc.Invalidate(ctx, key) })

	_, ok := dc.Get(ctx, key)
	assert.False(t, ok, "cold cache misses")

	collections := []*models.Collection{
		{
			ID:          uuid.New(),
			Type:        models.CollectionTypeTrending,
			Name:        "Trending This Week",
			TemplateIDs: []uuid.UUID{uuid.New(), uuid.New()},
			IsVisible:   true,
			Trending: &models.TrendingMeta{
				Algorithm:   "downloads_7d",
				RefreshedAt: time.Now().UTC().Truncate(time.Second),
				Cadence:     "daily",
			},
		},
	}
	dc.Set(ctx, key, collections)

	got, ok := dc.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, collections[0].ID, got[0].ID)
	assert.Equal(t, collections[0].TemplateIDs, got[0].TemplateIDs)
	require.NotNil(t, got[0].Trending)
	assert.Equal(t, "downloads_7d", got[0].Trending.Algorithm)
}

func TestDiscoveryCacheInvalidate(t *testing.T) {
	dc := testCache(t)
	ctx := context.Background()

	key := "test-" + uuid.NewString()[:8]
	dc.Set(ctx, key, []*models.Collection{{ID: uuid.New(), Name: "stale"}})

	_, ok := dc.Get(ctx, key)
	require.True(t, ok)

	dc.Invalidate(ctx, key)

	_, ok = dc.Get(ctx, key)
	assert.False(t, ok, "invalidated entries miss")
}
