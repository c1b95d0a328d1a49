package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/arcadehq/freegames-backend/api/routes"
	"github.com/arcadehq/freegames-backend/internal/analytics"
	"github.com/arcadehq/freegames-backend/internal/export"
	"github.com/arcadehq/freegames-backend/internal/games"
	"github.com/arcadehq/freegames-backend/internal/library"
	"github.com/arcadehq/freegames-backend/internal/notifications"
	"github.com/arcadehq/freegames-backend/internal/pricing"
	"github.com/arcadehq/freegames-backend/internal/recommendations"
	"github.com/arcadehq/freegames-backend/pkg/config"
	"github.com/arcadehq/freegames-backend/pkg/db"
	"github.com/arcadehq/freegames-backend/pkg/logger"
	"github.com/arcadehq/freegames-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	notificationsService, err := notifications.NewService(
		logg,
		notifications.NewRepository(dbClient.DB()),
		gamesRepo,
		channels,
		cfg.Refresh.ExpiryWarning,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(gamesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(logg, gamesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	exporter, err := export.NewExporter(gamesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create exporter", err)
		os.Exit(1)
	}

	var libraryService library.Service
	if cfg.Steam.APIKey != "" {
		steamClient, err := library.NewSteamClient(cfg.Steam.APIKey, cfg.Steam.Timeout)
		if err != nil {
			logg.Error(context.Background(), "failed to create steam client", err)
			os.Exit(1)
		}
		libraryService, err = library.NewService(logg, steamClient, gamesService, gamesRepo)
		if err != nil {
			logg.Error(context.Background(), "failed to create library service", err)
			os.Exit(1)
		}
	}

	var recommendationsService recommendations.Service
	if cfg.OpenAI.APIKey != "" {
		embedder, err := recommendations.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
		if err != nil {
			logg.Error(context.Background(), "failed to create embedder", err)
			os.Exit(1)
		}
		recommendationsService, err = recommendations.NewService(logg, gamesRepo, embedder)
		if err != nil {
			logg.Error(context.Background(), "failed to create recommendations service", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			gamesService,
			notificationsService,
			analyticsService,
			pricingService,
			libraryService,
			recommendationsService,
			exporter,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
