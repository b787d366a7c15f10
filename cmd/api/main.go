package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tudor-manea/lahinch/api/routes"
	"github.com/tudor-manea/lahinch/internal/artists"
	"github.com/tudor-manea/lahinch/internal/artworks"
	"github.com/tudor-manea/lahinch/internal/favorites"
	"github.com/tudor-manea/lahinch/internal/media"
	"github.com/tudor-manea/lahinch/internal/profiles"
	"github.com/tudor-manea/lahinch/internal/sales"
	"github.com/tudor-manea/lahinch/internal/subscriptions"
	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/metrics"
	"github.com/tudor-manea/lahinch/pkg/migrate"
	"github.com/tudor-manea/lahinch/pkg/redis"
	"github.com/tudor-manea/lahinch/pkg/storage/supabase"
	"github.com/tudor-manea/lahinch/pkg/stripe"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, dbClient, logg); err != nil {
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	storageClient, err := supabase.NewClient(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	profilesRepo := profiles.NewRepository(dbClient.DB())
	artistsRepo := artists.NewRepository(dbClient.DB())
	artworksRepo := artworks.NewRepository(dbClient.DB())
	favoritesRepo := favorites.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())

	profilesService, err := profiles.NewService(profiles.ServiceParams{Repo: profilesRepo})
	requireService(logg, "profiles", err)

	artistsService, err := artists.NewService(artists.ServiceParams{
		Repo:     artistsRepo,
		DBClient: dbClient,
		Storage:  storageClient,
		Buckets:  cfg.Storage,
		Logger:   logg,
	})
	requireService(logg, "artists", err)

	artworksService, err := artworks.NewService(artworks.ServiceParams{
		Repo:       artworksRepo,
		DBClient:   dbClient,
		ArtistRepo: artistsRepo,
		Storage:    storageClient,
		Buckets:    cfg.Storage,
		Logger:     logg,
	})
	requireService(logg, "artworks", err)

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		Repo:        favoritesRepo,
		ArtworkRepo: artworksRepo,
		ProfileRepo: profilesRepo,
	})
	requireService(logg, "favorites", err)

	salesService, err := sales.NewService(sales.ServiceParams{
		Repo:        salesRepo,
		DBClient:    dbClient,
		ArtworkRepo: artworksRepo,
		ProfileRepo: profilesRepo,
		Gateway:     stripeClient,
		Metrics:     commerceMetrics,
		Logger:      logg,
	})
	requireService(logg, "sales", err)

	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:        subscriptionsRepo,
		ProfileRepo: profilesRepo,
		DBClient:    dbClient,
		Gateway:     stripeClient,
		Stripe:      cfg.Stripe,
		Metrics:     commerceMetrics,
		Logger:      logg,
	})
	requireService(logg, "subscriptions", err)

	mediaService, err := media.NewService(media.ServiceParams{
		Repo:        mediaRepo,
		ArtistRepo:  artistsRepo,
		ArtworkRepo: artworksRepo,
		Storage:     storageClient,
		Buckets:     cfg.Storage,
		Logger:      logg,
	})
	requireService(logg, "media", err)

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
			redisClient,
			registry,
			profilesService,
			artistsService,
			artworksService,
			favoritesService,
			salesService,
			subscriptionsService,
			mediaService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
