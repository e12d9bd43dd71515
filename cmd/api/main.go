package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/animetoken/anime-token-backend/api/routes"
	"github.com/animetoken/anime-token-backend/internal/collections"
	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/internal/marketplace"
	"github.com/animetoken/anime-token-backend/internal/media"
	"github.com/animetoken/anime-token-backend/internal/minting"
	"github.com/animetoken/anime-token-backend/internal/wallets"
	"github.com/animetoken/anime-token-backend/internal/wizard"
	"github.com/animetoken/anime-token-backend/pkg/chain"
	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/db"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/metrics"
	"github.com/animetoken/anime-token-backend/pkg/migrate"
	"github.com/animetoken/anime-token-backend/pkg/outbox"
	"github.com/animetoken/anime-token-backend/pkg/redis"
	"github.com/animetoken/anime-token-backend/pkg/storage/supabase"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := supabase.New(cfg.Storage)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	mintingMetrics := metrics.NewMintingMetrics(prometheus.DefaultRegisterer)

	collectionsRepo := collections.NewRepository(dbClient.DB())
	draftRepo := draft.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())
	mintingRepo := minting.NewRepository(dbClient.DB())
	walletsRepo := wallets.NewRepository(dbClient.DB())
	marketplaceRepo := marketplace.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	mediaCoordinator, err := media.NewCoordinator(mediaRepo, storageClient, cfg.Storage, cfg.Media, mintingMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create media coordinator", err)
		os.Exit(1)
	}

	draftService, err := draft.NewService(draftRepo, collectionsRepo, mediaCoordinator, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	wizardService, err := wizard.NewService(draftService)
	if err != nil {
		logg.Error(context.Background(), "failed to create wizard service", err)
		os.Exit(1)
	}

	collectionService, err := collections.NewService(collectionsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create collection service", err)
		os.Exit(1)
	}

	walletService, err := wallets.NewService(walletsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	marketplaceService, err := marketplace.NewService(marketplaceRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketplace service", err)
		os.Exit(1)
	}

	persister, err := minting.NewPersister(dbClient, mintingRepo, collectionsRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create submission persister", err)
		os.Exit(1)
	}

	chainClient := chain.NewClient(cfg.Chain, logg)
	feeEstimator := chain.NewFeeEstimator(cfg.Fees, redisClient, logg)

	mintingService, err := minting.NewService(
		draftService,
		walletService,
		mediaCoordinator,
		persister,
		chainClient,
		redisClient,
		mintingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create minting service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			wizardService,
			mintingService,
			collectionService,
			marketplaceService,
			walletService,
			mediaCoordinator,
			feeEstimator,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
