package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewCache はイベントの閲覧数を短時間キャッシュする
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// GetViews はキャッシュ済みの閲覧数を返す
// キャッシュにないイベントは戻り値に含まれない
func (c *ViewCache) GetViews(ctx context.Context, eventIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}
	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = viewsKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("閲覧数キャッシュ取得に失敗: %w", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		result[eventIDs[i]] = n
	}
	return result, nil
}

// SetViews は閲覧数をまとめて保存する
func (c *ViewCache) SetViews(ctx context.Context, views map[string]int64) error {
	if len(views) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, n := range views {
			pipe.Set(ctx, viewsKey(id), n, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("閲覧数キャッシュ保存に失敗: %w", err)
	}
	return nil
}

func viewsKey(eventID string) string {
	return fmt.Sprintf("views:event:%s", eventID)
}
