package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

// setupTestCache skips the test when no Redis server is reachable.
func setupTestCache(t *testing.T, prefix string) (*Cache, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	c := New(client, prefix, time.Minute)
	cleanup := func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	}
	return c, cleanup
}

func TestBrowseKeyDeterministic(t *testing.T) {
	type filters struct {
		SortBy  string   `json:"sort_by"`
		InStock bool     `json:"in_stock"`
		Tags    []string `json:"tags"`
	}

	a := BrowseKey("soy-sauces", filters{SortBy: "name", Tags: []string{"x"}}, "")
	b := BrowseKey("soy-sauces", filters{SortBy: "name", Tags: []string{"x"}}, "")
	assert.Equal(t, a, b)
}

func TestBrowseKeyVariesByComponent(t *testing.T) {
	type filters struct {
		SortBy string `json:"sort_by"`
	}

	base := BrowseKey("soy-sauces", filters{}, "")
	assert.NotEqual(t, base, BrowseKey("teas", filters{}, ""), "category must change the key")
	assert.NotEqual(t, base, BrowseKey("soy-sauces", filters{SortBy: "name"}, ""), "filters must change the key")
	assert.NotEqual(t, base, BrowseKey("soy-sauces", filters{}, "noodle"), "search term must change the key")
}

func TestCacheRoundTrip(t *testing.T) {
	c, cleanup := setupTestCache(t, "panmart-test:")
	defer cleanup()

	ctx := context.Background()
	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	in := payload{Name: "Dark Soy Sauce", Price: 3.5}
	require.NoError(t, c.Set(ctx, "k1", in))

	var out payload
	hit, err := c.Get(ctx, "k1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)

	stats := c.Snapshot()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Sets)
}

func TestCacheMiss(t *testing.T) {
	c, cleanup := setupTestCache(t, "panmart-test-miss:")
	defer cleanup()

	var out map[string]any
	hit, err := c.Get(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, uint64(1), c.Snapshot().Misses)
}

func TestCacheDelete(t *testing.T) {
	c, cleanup := setupTestCache(t, "panmart-test-del:")
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v"))
	require.NoError(t, c.Delete(ctx, "k"))

	var out string
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
