package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arcadehq/freegames-backend/internal/cron"
	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/internal/ingest"
	"github.com/arcadehq/freegames-backend/internal/lifecycle"
	"github.com/arcadehq/freegames-backend/internal/notifications"
	"github.com/arcadehq/freegames-backend/pkg/config"
	"github.com/arcadehq/freegames-backend/pkg/db"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/arcadehq/freegames-backend/pkg/metrics"
	"github.com/arcadehq/freegames-backend/pkg/migrate"
	"github.com/arcadehq/freegames-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var lock cron.Lock
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker", cfg.App.Env), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
	} else {
		logg.Info(context.Background(), "redis not configured, using in-process lock")
		lock = cron.NewLocalLock()
	}

	gamesRepo := games.NewRepository(dbClient.DB())
	gamesService, err := games.NewService(gamesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create games service", err)
		os.Exit(1)
	}

	channels := []notifications.Channel{notifications.NewLogChannel(logg)}
	if cfg.Notifications.WebhookURL != "" {
		webhook, err := notifications.NewWebhookChannel(cfg.Notifications.WebhookURL, cfg.Notifications.WebhookTimeout)
		if err != nil {
			logg.Error(context.Background(), "failed to create webhook channel", err)
			os.Exit(1)
		}
		channels = append(channels, webhook)
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService, err := notifications.NewService(
		logg,
		notificationsRepo,
		gamesRepo,
		channels,
		cfg.Refresh.ExpiryWarning,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	sweeper, err := lifecycle.NewSweeper(logg, gamesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sweeper", err)
		os.Exit(1)
	}

	sources := []ingest.Source{
		ingest.NewEpicSource(cfg.Refresh.SourceTimeout),
	}

	cycle, err := ingest.NewCycle(logg, sources, gamesService, sweeper, notificationsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh cycle", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewRefreshJob(cycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh job", err)
		os.Exit(1)
	}

	cleanupJob, err := cron.NewNotificationCleanupJob(logg, notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cleanup job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	go serveMetrics(logg, cfg.Refresh.MetricsAddress)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob, cleanupJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Refresh.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(logg *logger.Logger, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(context.Background(), "metrics server stopped unexpectedly", err)
	}
}
