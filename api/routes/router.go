package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tudor-manea/lahinch/api/controllers"
	"github.com/tudor-manea/lahinch/api/middleware"
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
	"github.com/tudor-manea/lahinch/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	profilesService profiles.Service,
	artistsService artists.Service,
	artworksService artworks.Service,
	favoritesService favorites.Service,
	salesService sales.Service,
	subscriptionsService subscriptions.Service,
	mediaService media.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	paymentPolicy := middleware.NewRateLimitPolicy(
		"payment",
		cfg.RateLimit.PaymentWindow,
		cfg.RateLimit.PaymentIPLimit,
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/artists", func(r chi.Router) {
			r.Get("/", controllers.ArtistList(artistsService, logg))
			r.Post("/", controllers.ArtistCreate(artistsService, logg))
			r.Get("/featured", controllers.ArtistFeatured(artistsService, logg))
			r.Route("/{artistId}", func(r chi.Router) {
				r.Get("/", controllers.ArtistGet(artistsService, logg))
				r.Put("/", controllers.ArtistUpdate(artistsService, logg))
				r.Delete("/", controllers.ArtistDelete(artistsService, logg))
				r.Get("/artworks", controllers.ArtistArtworks(artworksService, logg))
				r.Get("/media", controllers.ArtistMedia(mediaService, logg))
			})
		})

		r.Route("/artworks", func(r chi.Router) {
			r.Get("/search", controllers.ArtworkSearch(artworksService, logg))
			r.Post("/", controllers.ArtworkCreate(artworksService, logg))
			r.Route("/{artworkId}", func(r chi.Router) {
				r.Get("/", controllers.ArtworkGet(artworksService, logg))
				r.Put("/", controllers.ArtworkUpdate(artworksService, logg))
				r.Delete("/", controllers.ArtworkDelete(artworksService, logg))
				r.Patch("/availability", controllers.ArtworkUpdateAvailability(artworksService, logg))
				r.Get("/media", controllers.ArtworkMedia(mediaService, logg))
				r.Get("/sales", controllers.ArtworkSales(salesService, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.With(middleware.RateLimit(paymentPolicy, redisClient, logg)).
				Post("/payment-intent", controllers.SalePaymentIntent(salesService, logg))
			r.Post("/", controllers.SaleRecord(salesService, logg))
			r.Get("/", controllers.SalesRecent(salesService, logg))
			r.Get("/{saleId}", controllers.SaleGet(salesService, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.With(middleware.RateLimit(paymentPolicy, redisClient, logg)).
				Post("/payment-intent", controllers.SubscriptionPaymentIntent(subscriptionsService, logg))
			r.Post("/confirm", controllers.SubscriptionConfirm(subscriptionsService, logg))
			r.Get("/{userId}/status", controllers.SubscriptionStatus(subscriptionsService, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/", controllers.MediaCreate(mediaService, logg))
			r.Route("/{mediaId}", func(r chi.Router) {
				r.Get("/", controllers.MediaGet(mediaService, logg))
				r.Put("/", controllers.MediaUpdate(mediaService, logg))
				r.Delete("/", controllers.MediaDelete(mediaService, logg))
			})
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoriteList(favoritesService, logg))
				r.Post("/", controllers.FavoriteAdd(favoritesService, logg))
				r.Route("/{artworkId}", func(r chi.Router) {
					r.Get("/", controllers.FavoriteCheck(favoritesService, logg))
					r.Delete("/", controllers.FavoriteRemove(favoritesService, logg))
				})
			})
			r.Get("/sales", controllers.SalesByBuyer(salesService, logg))
		})

		r.Route("/profiles/{userId}", func(r chi.Router) {
			r.Post("/", controllers.ProfileCreate(profilesService, logg))
			r.Get("/", controllers.ProfileGet(profilesService, logg))
			r.Put("/", controllers.ProfileUpdate(profilesService, logg))
		})
	})

	return r
}
