package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mtosity/wirefires-tracker/internal/app/monitor"
	httpapi "github.com/mtosity/wirefires-tracker/internal/http"
	"github.com/mtosity/wirefires-tracker/internal/http/handlers"
	"github.com/mtosity/wirefires-tracker/internal/observability"
	"github.com/mtosity/wirefires-tracker/internal/platform/config"
	"github.com/mtosity/wirefires-tracker/internal/platform/feeds"
	"github.com/mtosity/wirefires-tracker/internal/platform/logger"
	snapshotcache "github.com/mtosity/wirefires-tracker/internal/platform/redis/cache"
	healthredis "github.com/mtosity/wirefires-tracker/internal/platform/redis/health"
	"github.com/mtosity/wirefires-tracker/internal/workers/refresher"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logLevel := logger.ParseLogLevel(cfg.Log.Level)
	log := logger.New(os.Stdout, logLevel, "WILDFIRES")

	ctx := context.Background()
	log.Info(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))
	log.BuildInfo(ctx)

	metrics := observability.NewMetrics()

	// --- Redis snapshot cache ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
	err = rdb.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		log.Error(ctx, "startup", "status", "redis init failed", "error", err)
		return
	}

	// --- Feeds ---
	feedClient := feeds.New(cfg.Feeds.BaseURL, cfg.Feeds.Timeout)
	cachedFeeds := snapshotcache.New(rdb, feedClient,
		snapshotcache.WithTTL(cfg.Feeds.CacheTTL),
		snapshotcache.WithLogger(log),
		snapshotcache.WithMetrics(metrics),
	)

	// --- Sessions ---
	clock := clockwork.NewRealClock()
	refr := refresher.New(cachedFeeds, clock, cfg.Refresh.Debounce, log, metrics)
	mgr := monitor.NewManager(refr, monitor.Settings{
		LocateZoom: cfg.Map.LocateZoom,
		AlertZoom:  cfg.Map.AlertZoom,
		PublicURL:  cfg.HTTP.PublicURL,
	}, cfg.Sessions.IdleTTL, cfg.Sessions.SweepInterval, clock, log, metrics)

	sessionHandlers := handlers.NewSessions(mgr)
	sysHandler := handlers.NewSystem(
		log,
		handlers.Dependency{
			Name:   "redis_cache",
			Pinger: healthredis.NewRedisPinger(rdb),
		},
	)

	// --- HTTP ---
	router := httpapi.NewRouter(log, logLevel, sessionHandlers, sysHandler)
	s := httpapi.NewServer(httpapi.Config{Addr: cfg.HTTP.Addr}, router, logger.NewStdLogger(log, logger.LevelError))

	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		log.Info(ctx, "startup", "status", "server started", "addr", cfg.HTTP.Addr)
		serverErrors <- s.Start()
	}()

	// --- Workers ---
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()

	g, gctx := errgroup.WithContext(workerCtx)
	g.Go(func() error { return mgr.Run(gctx) })

	select {
	case err := <-serverErrors:
		log.Error(ctx, "startup", "status", "server failed", "error", err)

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		workerCancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "could not stop server gracefully", "error", err)
			_ = s.Close()
		}
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error(ctx, "shutdown", "status", "workers failed to stop gracefully", "error", err)
	}
}
