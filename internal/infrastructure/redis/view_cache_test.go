package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCache(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewViewCache(client, 30*time.Second)
	ctx := context.Background()

	t.Run("キャッシュにない場合は含まれない", func(t *testing.T) {
		views, err := cache.GetViews(ctx, []string{"view-ev-missing"})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("保存した閲覧数を取得できる", func(t *testing.T) {
		require.NoError(t, cache.SetViews(ctx, map[string]int64{"view-ev-1": 12, "view-ev-2": 0}))

		views, err := cache.GetViews(ctx, []string{"view-ev-1", "view-ev-2", "view-ev-3"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"view-ev-1": 12, "view-ev-2": 0}, views)
	})
}

func TestViewCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewViewCache(client, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.SetViews(ctx, map[string]int64{"view-ev-ttl": 3}))
	views, err := cache.GetViews(ctx, []string{"view-ev-ttl"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), views["view-ev-ttl"])

	time.Sleep(150 * time.Millisecond)
	views, err = cache.GetViews(ctx, []string{"view-ev-ttl"})
	require.NoError(t, err)
	assert.Empty(t, views)
}
