package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-event-participation/internal/api"
	"github.com/sanosuguru/go-event-participation/internal/api/handler"
	"github.com/sanosuguru/go-event-participation/internal/api/middleware"
	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/messaging"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-participation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/search"
	statsinfra "github.com/sanosuguru/go-event-participation/internal/infrastructure/stats"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-participation/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logger.Error("サーバーが異常終了しました", zap.Error(err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.Init(cfg.Env, cfg.Log.Level)
	defer log.Sync()
	m := metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		return err
	}
	checks := map[string]handler.HealthCheck{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// 任意の依存先。未設定または接続できなければ無効のまま起動する
	var (
		locker    application.EventLocker
		viewCache application.ViewCache
		indexer   application.EventIndexer
		notifier  application.Notifier
	)

	rc, err := redisinfra.Connect(ctx, &cfg.Redis)
	switch {
	case err != nil:
		log.Warn("Redisに接続できないため、イベントロックと閲覧数キャッシュを無効にします", zap.Error(err))
	case rc != nil:
		defer rc.Close()
		locker = redisinfra.NewEventLocker(rc, cfg.Participation)
		viewCache = redisinfra.NewViewCache(rc, cfg.Stats.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) }
	}

	if cfg.Elasticsearch.Enabled() {
		idx, err := search.NewEventIndex(ctx, cfg.Elasticsearch)
		if err != nil {
			log.Warn("Elasticsearchを利用できないため、全文検索はDBで行います", zap.Error(err))
		} else {
			indexer = idx
			checks["elasticsearch"] = idx.HealthCheck
		}
	}

	if cfg.NATS.Enabled() {
		pub, err := messaging.NewPublisher(cfg.NATS)
		if err != nil {
			log.Warn("NATSに接続できないため、通知を無効にします", zap.Error(err))
		} else {
			defer pub.Close()
			notifier = pub
		}
	}

	// 統計サービス
	statsClient := statsinfra.NewHTTPClient(cfg.Stats)
	hits := worker.NewHitDispatcher(statsClient, cfg.Stats.QueueSize, cfg.Stats.Timeout)
	go hits.Start(context.Background())

	// リポジトリとサービス
	txManager := postgres.NewTxManager(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	views := application.NewViewService(statsClient, viewCache, hits, cfg.Stats)
	eventService := application.NewEventService(txManager, eventRepo, requestRepo, userRepo, categoryRepo, views, indexer, notifier)
	requestService := application.NewRequestService(txManager, requestRepo, eventRepo, userRepo, locker, notifier)
	commentService := application.NewCommentService(commentRepo, eventRepo, userRepo)
	directoryService := application.NewDirectoryService(userRepo, categoryRepo)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	handler.RegisterRoutes(e, handler.Handlers{
		Event:     handler.NewEventHandler(eventService),
		Request:   handler.NewRequestHandler(requestService),
		Comment:   handler.NewCommentHandler(commentService),
		Directory: handler.NewDirectoryHandler(directoryService),
		Health:    handler.NewHealthHandler(checks),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("サーバー起動", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("サーバーをシャットダウンしています...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)

		// 受け付け済みのヒットを送り切る
		hits.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("サーバーが正常にシャットダウンしました")
	return nil
}
