package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/animetoken/anime-token-backend/api/controllers"
	"github.com/animetoken/anime-token-backend/api/middleware"
	"github.com/animetoken/anime-token-backend/internal/collections"
	"github.com/animetoken/anime-token-backend/internal/marketplace"
	"github.com/animetoken/anime-token-backend/internal/media"
	"github.com/animetoken/anime-token-backend/internal/minting"
	"github.com/animetoken/anime-token-backend/internal/wallets"
	"github.com/animetoken/anime-token-backend/internal/wizard"
	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/db"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	wizardService wizard.Service,
	mintingService minting.Service,
	collectionService collections.Service,
	marketplaceService marketplace.Service,
	walletService wallets.Service,
	mediaCoordinator *media.Coordinator,
	feeEstimator controllers.FeeEstimator,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	// public browse surface
	r.Route("/api/v1/marketplace", func(r chi.Router) {
		r.Get("/listings", controllers.MarketplaceListings(marketplaceService, logg))
	})
	r.Get("/api/v1/fees/estimate", controllers.FeeEstimate(feeEstimator, logg))

	submitPolicy := middleware.NewRateLimitPolicy("submit", cfg.RateLimit.SubmitWindow, cfg.RateLimit.SubmitLimit)
	stagePolicy := middleware.NewRateLimitPolicy("stage", cfg.RateLimit.StageWindow, cfg.RateLimit.StageLimit)

	// authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/api/v1/wizard/{kind}", func(r chi.Router) {
			r.Get("/", controllers.WizardState(wizardService, logg))
			r.Patch("/", controllers.WizardPatch(wizardService, logg))
			r.Post("/next", controllers.WizardNext(wizardService, logg))
			r.Post("/back", controllers.WizardBack(wizardService, logg))
			r.Post("/reset", controllers.WizardReset(wizardService, logg))
			r.With(middleware.RateLimit(submitPolicy, redisClient, logg)).
				Post("/submit", controllers.WizardSubmit(mintingService, logg))
		})

		r.Route("/api/v1/collections", func(r chi.Router) {
			r.Get("/", controllers.CollectionList(collectionService, logg))
			r.Get("/{id}", controllers.CollectionGet(collectionService, logg))
			r.Patch("/{id}", controllers.CollectionUpdate(collectionService, logg))
			r.Post("/{id}/locks", controllers.CollectionLock(collectionService, logg))
			r.Delete("/{id}/locks", controllers.CollectionUnlock(collectionService, logg))
			r.With(middleware.RateLimit(submitPolicy, redisClient, logg)).
				Post("/{id}/retry-mint", controllers.CollectionRetryMint(mintingService, logg))
		})

		r.Route("/api/v1/wallets", func(r chi.Router) {
			r.Get("/", controllers.WalletList(walletService, logg))
			r.Post("/", controllers.WalletLink(walletService, logg))
			r.Post("/{id}/primary", controllers.WalletMakePrimary(walletService, logg))
		})

		r.With(middleware.RateLimit(stagePolicy, redisClient, logg)).
			Post("/api/v1/media/stage", controllers.MediaStage(mediaCoordinator, logg))
	})

	return r
}
