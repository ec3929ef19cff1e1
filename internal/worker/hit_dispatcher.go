package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/stats"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// HitSender は統計サービスへアクセスを送るインターフェース
type HitSender interface {
	SendHit(ctx context.Context, hit stats.Hit) error
}

// HitDispatcher はアクセス記録をキューに貯めて統計サービスへ非同期に送るワーカー
// リクエスト処理は統計サービスの応答を待たない
type HitDispatcher struct {
	sender  HitSender
	queue   chan stats.Hit
	timeout time.Duration
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// NewHitDispatcher は新しいディスパッチャを作成
func NewHitDispatcher(sender HitSender, queueSize int, timeout time.Duration) *HitDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HitDispatcher{
		sender:  sender,
		queue:   make(chan stats.Hit, queueSize),
		timeout: timeout,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Enqueue はアクセスをキューに積む
// キューが満杯なら破棄して false を返す
func (d *HitDispatcher) Enqueue(hit stats.Hit) bool {
	select {
	case d.queue <- hit:
		return true
	default:
		metrics.Get().HitsDroppedTotal.Inc()
		logger.Debug("ヒットキューが満杯のため破棄", zap.String("uri", hit.URI))
		return false
	}
}

// Start はディスパッチャを開始
func (d *HitDispatcher) Start(ctx context.Context) {
	logger.Info("ヒット送信ワーカー開始", zap.Int("queue_size", cap(d.queue)))
	defer close(d.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("ヒット送信ワーカー停止（コンテキストキャンセル）")
			d.drain()
			return
		case <-d.stopCh:
			logger.Info("ヒット送信ワーカー停止（シグナル受信）")
			d.drain()
			return
		case hit := <-d.queue:
			d.send(hit)
		}
	}
}

// Stop はディスパッチャを停止し、キューに残ったヒットを送り切るまで待つ
func (d *HitDispatcher) Stop() {
	d.once.Do(func() { close(d.stopCh) })
	<-d.doneCh
}

func (d *HitDispatcher) drain() {
	for {
		select {
		case hit := <-d.queue:
			d.send(hit)
		default:
			return
		}
	}
}

// send は1件送信する。停止中でも送れるよう送信ごとにタイムアウトを設ける
func (d *HitDispatcher) send(hit stats.Hit) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.SendHit(ctx, hit); err != nil {
		metrics.Get().StatsCallsTotal.WithLabelValues("hit", "failed").Inc()
		logger.Warn("ヒット送信失敗", zap.String("uri", hit.URI), zap.Error(err))
		return
	}
	metrics.Get().StatsCallsTotal.WithLabelValues("hit", "success").Inc()
}
