package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcadehq/freegames-backend/api/controllers"
	"github.com/arcadehq/freegames-backend/api/middleware"
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
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gamesService games.Service,
	notificationsService notifications.Service,
	analyticsService analytics.Service,
	pricingService pricing.Service,
	libraryService library.Service,
	recommendationsService recommendations.Service,
	exporter *export.Exporter,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Get("/", controllers.ListGames(gamesService, logg))
			r.Post("/", controllers.AddGame(gamesService, logg))
			r.Post("/claim", controllers.ClaimGame(gamesService, logg))
			r.Post("/own", controllers.OwnGame(gamesService, logg))
			r.Post("/genre", controllers.SetGameGenre(gamesService, logg))
			r.Post("/price", controllers.RecordPrice(pricingService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/status-counts", controllers.CollectionStats(analyticsService, logg))
			r.Get("/platform-chart", controllers.PlatformChart(analyticsService, logg))
		})

		r.Route("/library", func(r chi.Router) {
			r.Post("/steam/import", controllers.ImportSteamLibrary(libraryService, logg))
			r.Post("/steam/playtime", controllers.SyncSteamPlaytime(libraryService, logg))
		})

		r.Get("/export", controllers.ExportGames(exporter, logg))
		r.Get("/recommendations", controllers.RecommendGames(recommendationsService, logg))
	})

	return r
}
