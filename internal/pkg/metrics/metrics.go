package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 参加リクエスト作成の結果（result: confirmed, pending, already_exists, limit_reached, rejected）
	ParticipationRequestsTotal *prometheus.CounterVec

	// 一括モデレーションの結果（target: CONFIRMED/REJECTED, result: success, capacity_exceeded, conflict）
	ModerationsTotal *prometheus.CounterVec

	// イベントロックの操作時間（operation: acquire/release, status: success/failed/contended）
	EventLockDuration *prometheus.HistogramVec

	// 統計サービス呼び出し（operation: stats/hit, status: success/failed）
	StatsCallsTotal *prometheus.CounterVec

	// キュー溢れで破棄されたヒット数
	HitsDroppedTotal prometheus.Counter

	// イベント状態遷移（to: PUBLISHED, CANCELED, PENDING）
	EventTransitionsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ParticipationRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_requests_total",
				Help: "Total number of participation request submissions by result",
			},
			[]string{"result"},
		),
		ModerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "request_moderations_total",
				Help: "Total number of batch moderation calls",
			},
			[]string{"target", "result"},
		),
		EventLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "event_lock_duration_seconds",
				Help:    "Time spent on per-event distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		StatsCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stats_calls_total",
				Help: "Calls to the external stats service",
			},
			[]string{"operation", "status"},
		),
		HitsDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stats_hits_dropped_total",
				Help: "Hits dropped because the dispatch queue was full",
			},
		),
		EventTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_state_transitions_total",
				Help: "Event lifecycle transitions by target state",
			},
			[]string{"to"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ParticipationRequestsTotal,
		m.ModerationsTotal,
		m.EventLockDuration,
		m.StatsCallsTotal,
		m.HitsDroppedTotal,
		m.EventTransitionsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
// 未初期化の場合は登録しない使い捨てインスタンスを返す
func Get() *Metrics {
	if defaultMetrics == nil {
		defaultMetrics = NewWithRegistry(prometheus.NewRegistry())
	}
	return defaultMetrics
}
