package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/stats"
)

// EventLocker はイベント単位の排他ロック
// 取得できた場合は解放関数を返す
type EventLocker interface {
	LockEvent(ctx context.Context, eventID string) (func(context.Context) error, error)
}

// ViewCache は閲覧数のキャッシュ
type ViewCache interface {
	GetViews(ctx context.Context, eventIDs []string) (map[string]int64, error)
	SetViews(ctx context.Context, views map[string]int64) error
}

// EventIndexer は公開イベントの全文検索インデックス
type EventIndexer interface {
	IndexEvent(ctx context.Context, e *event.Event) error
	SearchIDs(ctx context.Context, text string, limit int) ([]string, error)
}

// Notifier はライフサイクル通知の送信先
type Notifier interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

// HitRecorder はアクセス記録を非同期に送るキュー
// キューが満杯なら false を返す
type HitRecorder interface {
	Enqueue(hit stats.Hit) bool
}

// 通知のサブジェクト
const (
	SubjectEventState        = "state"
	SubjectRequestsModerated = "requests.moderated"
)

// EventStateNotification はイベントの状態遷移通知
type EventStateNotification struct {
	EventID     string     `json:"eventId"`
	State       string     `json:"state"`
	PublishedOn *time.Time `json:"publishedOn,omitempty"`
}

// ModerationNotification は一括モデレーションの通知
type ModerationNotification struct {
	EventID   string   `json:"eventId"`
	Confirmed []string `json:"confirmed"`
	Rejected  []string `json:"rejected"`
}
