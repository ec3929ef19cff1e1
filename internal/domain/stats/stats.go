package stats

import (
	"context"
	"strings"
	"time"
)

// TimeLayout は統計サービスとやり取りする日時の書式
const TimeLayout = "2006-01-02 15:04:05"

const eventURIPrefix = "/events/"

// Hit はエンドポイントへのアクセス1件を表す
type Hit struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

// ViewStats はURIごとの閲覧数
type ViewStats struct {
	App  string
	URI  string
	Hits int64
}

// EventURI はイベントIDから統計用のURIを作る
func EventURI(eventID string) string {
	return eventURIPrefix + eventID
}

// EventIDFromURI は統計用URIからイベントIDを取り出す
func EventIDFromURI(uri string) (string, bool) {
	if !strings.HasPrefix(uri, eventURIPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(uri, eventURIPrefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// Client は統計サービスのクライアント
type Client interface {
	// GetStats は期間内のURIごとの閲覧数を返す
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
	// SendHit はアクセスを記録する
	SendHit(ctx context.Context, hit Hit) error
}
