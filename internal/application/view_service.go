package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/stats"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// ViewService は閲覧数の取得とアクセス記録を担う
// 統計サービスの障害は呼び出し元に伝えず、閲覧数0として扱う
type ViewService struct {
	client  stats.Client
	cache   ViewCache
	hits    HitRecorder
	app     string
	timeout time.Duration
	now     func() time.Time
}

func NewViewService(client stats.Client, cache ViewCache, hits HitRecorder, cfg config.StatsConfig) *ViewService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ViewService{
		client:  client,
		cache:   cache,
		hits:    hits,
		app:     cfg.App,
		timeout: timeout,
		now:     time.Now,
	}
}

// Views は公開済みイベントの閲覧数（ユニークIP数）を返す
// 未公開のイベントと取得に失敗したイベントは0になる
func (s *ViewService) Views(ctx context.Context, events []*event.Event) map[string]int64 {
	views := make(map[string]int64, len(events))
	var published []*event.Event
	for _, e := range events {
		views[e.ID] = 0
		if e.PublishedOn != nil {
			published = append(published, e)
		}
	}
	if len(published) == 0 {
		return views
	}

	missing := published
	if s.cache != nil {
		ids := make([]string, len(published))
		for i, e := range published {
			ids[i] = e.ID
		}
		cached, err := s.cache.GetViews(ctx, ids)
		if err != nil {
			logger.Warn("閲覧数キャッシュ取得エラー", zap.Error(err))
		} else {
			missing = nil
			for _, e := range published {
				if n, ok := cached[e.ID]; ok {
					views[e.ID] = n
				} else {
					missing = append(missing, e)
				}
			}
		}
	}
	if len(missing) == 0 || s.client == nil {
		return views
	}

	fetched, err := s.fetch(ctx, missing)
	if err != nil {
		metrics.Get().StatsCallsTotal.WithLabelValues("stats", "failed").Inc()
		logger.Warn("閲覧数の取得に失敗したため0として扱います", zap.Error(err), zap.Int("events", len(missing)))
		return views
	}
	metrics.Get().StatsCallsTotal.WithLabelValues("stats", "success").Inc()
	for id, n := range fetched {
		views[id] = n
	}
	if s.cache != nil {
		if err := s.cache.SetViews(ctx, fetched); err != nil {
			logger.Warn("閲覧数キャッシュ保存エラー", zap.Error(err))
		}
	}
	return views
}

func (s *ViewService) fetch(ctx context.Context, events []*event.Event) (map[string]int64, error) {
	start := *events[0].PublishedOn
	uris := make([]string, len(events))
	result := make(map[string]int64, len(events))
	for i, e := range events {
		if e.PublishedOn.Before(start) {
			start = *e.PublishedOn
		}
		uris[i] = stats.EventURI(e.ID)
		result[e.ID] = 0
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	vs, err := s.client.GetStats(ctx, start, s.now(), uris, true)
	if err != nil {
		return nil, err
	}
	for _, v := range vs {
		id, ok := stats.EventIDFromURI(v.URI)
		if !ok {
			continue
		}
		if _, want := result[id]; want {
			result[id] = v.Hits
		}
	}
	return result, nil
}

// RecordHit はアクセスを非同期に記録する
func (s *ViewService) RecordHit(uri, ip string) {
	if s.hits == nil {
		return
	}
	s.hits.Enqueue(stats.Hit{App: s.app, URI: uri, IP: ip, Timestamp: s.now()})
}
