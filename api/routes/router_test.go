package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/internal/artists"
	"github.com/tudor-manea/lahinch/internal/artworks"
	"github.com/tudor-manea/lahinch/internal/favorites"
	"github.com/tudor-manea/lahinch/internal/media"
	"github.com/tudor-manea/lahinch/internal/profiles"
	"github.com/tudor-manea/lahinch/internal/sales"
	"github.com/tudor-manea/lahinch/internal/subscriptions"
	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/enums"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/pagination"
	"github.com/tudor-manea/lahinch/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubProfilesService struct{}

func (stubProfilesService) CreateProfile(ctx context.Context, userID uuid.UUID, input profiles.ProfileInput) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubProfilesService) GetProfile(ctx context.Context, userID uuid.UUID) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubProfilesService) UpdateProfile(ctx context.Context, userID uuid.UUID, input profiles.ProfileInput) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubProfilesService) CreateOrUpdate(ctx context.Context, userID uuid.UUID, input profiles.ProfileInput) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubProfilesService) GetRole(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	return enums.UserRolePublic, nil
}

type stubArtistsService struct{}

func (stubArtistsService) CreateArtist(ctx context.Context, input artists.ArtistInput, image *types.FileUpload) (*artists.ArtistDTO, error) {
	return &artists.ArtistDTO{}, nil
}

func (stubArtistsService) UpdateArtist(ctx context.Context, artistID uuid.UUID, input artists.ArtistInput, image *types.FileUpload) (*artists.ArtistDTO, error) {
	return &artists.ArtistDTO{}, nil
}

func (stubArtistsService) DeleteArtist(ctx context.Context, artistID uuid.UUID) (*artists.DeleteResultDTO, error) {
	return &artists.DeleteResultDTO{}, nil
}

func (stubArtistsService) GetArtist(ctx context.Context, artistID uuid.UUID) (*artists.ArtistDTO, error) {
	return &artists.ArtistDTO{}, nil
}

func (stubArtistsService) ListArtists(ctx context.Context, params pagination.Params) (artists.ArtistListDTO, error) {
	return artists.ArtistListDTO{}, nil
}

func (stubArtistsService) ListFeatured(ctx context.Context) ([]artists.ArtistDTO, error) {
	return nil, nil
}

type stubArtworksService struct {
	searchCalls int
	lastFilters map[string]string
}

func (s *stubArtworksService) Search(ctx context.Context, page pagination.Params, filters map[string]string, term, sort string) (artworks.ArtworkListDTO, error) {
	s.searchCalls++
	s.lastFilters = filters
	return artworks.ArtworkListDTO{}, nil
}

func (s *stubArtworksService) GetArtwork(ctx context.Context, artworkID uuid.UUID) (*artworks.ArtworkDTO, error) {
	return &artworks.ArtworkDTO{}, nil
}

func (s *stubArtworksService) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]artworks.ArtworkDTO, error) {
	return nil, nil
}

func (s *stubArtworksService) CreateArtwork(ctx context.Context, input artworks.CreateArtworkInput, image *types.FileUpload) (*artworks.ArtworkDTO, error) {
	return &artworks.ArtworkDTO{}, nil
}

func (s *stubArtworksService) UpdateArtwork(ctx context.Context, artworkID uuid.UUID, input artworks.UpdateArtworkInput, image *types.FileUpload) (*artworks.ArtworkDTO, error) {
	return &artworks.ArtworkDTO{}, nil
}

func (s *stubArtworksService) DeleteArtwork(ctx context.Context, artworkID uuid.UUID) (*artworks.DeleteResultDTO, error) {
	return &artworks.DeleteResultDTO{}, nil
}

func (s *stubArtworksService) UpdateAvailability(ctx context.Context, artworkID uuid.UUID, status enums.AvailabilityStatus) (*artworks.ArtworkDTO, error) {
	return &artworks.ArtworkDTO{}, nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) Add(ctx context.Context, userID, artworkID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) Remove(ctx context.Context, userID, artworkID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) IsFavorited(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	return true, nil
}

func (stubFavoritesService) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (favorites.FavoriteListDTO, error) {
	return favorites.FavoriteListDTO{}, nil
}

type stubSalesService struct{}

func (stubSalesService) CreatePaymentIntentForArtwork(ctx context.Context, artworkID uuid.UUID, buyerUserID *uuid.UUID) (*sales.PaymentIntentDTO, error) {
	return &sales.PaymentIntentDTO{}, nil
}

func (stubSalesService) RecordSale(ctx context.Context, input sales.RecordSaleInput) (*sales.SaleDTO, error) {
	return &sales.SaleDTO{}, nil
}

func (stubSalesService) GetSale(ctx context.Context, saleID uuid.UUID) (*sales.SaleDTO, error) {
	return &sales.SaleDTO{}, nil
}

func (stubSalesService) GetSalesByArtwork(ctx context.Context, artworkID uuid.UUID) ([]sales.SaleDTO, error) {
	return nil, nil
}

func (stubSalesService) GetSalesByBuyer(ctx context.Context, buyerUserID uuid.UUID) ([]sales.SaleDTO, error) {
	return nil, nil
}

func (stubSalesService) GetRecentSales(ctx context.Context, limit int) ([]sales.SaleDTO, error) {
	return nil, nil
}

type stubSubscriptionsService struct{}

func (stubSubscriptionsService) CreatePaymentIntentForSubscription(ctx context.Context, userID uuid.UUID) (*subscriptions.PaymentIntentDTO, error) {
	return &subscriptions.PaymentIntentDTO{}, nil
}

func (stubSubscriptionsService) ConfirmPayment(ctx context.Context, paymentRef string, userID uuid.UUID, amount, currency string) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{}, nil
}

func (stubSubscriptionsService) CheckUserSubscription(ctx context.Context, userID uuid.UUID) (*subscriptions.StatusDTO, error) {
	return &subscriptions.StatusDTO{}, nil
}

type stubMediaService struct{}

func (stubMediaService) CreateMedia(ctx context.Context, input media.CreateMediaInput, file, thumbnail *types.FileUpload) (*media.MediaDTO, error) {
	return &media.MediaDTO{}, nil
}

func (stubMediaService) UpdateMedia(ctx context.Context, mediaID uuid.UUID, input media.UpdateMediaInput, file, thumbnail *types.FileUpload) (*media.UpdateResultDTO, error) {
	return &media.UpdateResultDTO{}, nil
}

func (stubMediaService) DeleteMedia(ctx context.Context, mediaID uuid.UUID) (*media.DeleteResultDTO, error) {
	return &media.DeleteResultDTO{}, nil
}

func (stubMediaService) GetMedia(ctx context.Context, mediaID uuid.UUID) (*media.MediaDTO, error) {
	return &media.MediaDTO{}, nil
}

func (stubMediaService) ListForArtist(ctx context.Context, artistID uuid.UUID) ([]media.MediaDTO, error) {
	return nil, nil
}

func (stubMediaService) ListForArtwork(ctx context.Context, artworkID uuid.UUID) ([]media.MediaDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		RateLimit: config.RateLimitConfig{
			PaymentWindow:  time.Minute,
			PaymentIPLimit: 0,
		},
	}
}

func newTestRouter(cfg *config.Config, artworksService artworks.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		prometheus.NewRegistry(),
		stubProfilesService{},
		stubArtistsService{},
		artworksService,
		stubFavoritesService{},
		stubSalesService{},
		stubSubscriptionsService{},
		stubMediaService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Lahinch-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
	}
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestSearchForwardsFilters(t *testing.T) {
	svc := &stubArtworksService{}
	router := newTestRouter(testConfig(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artworks/search?term=sea&artistId=not-a-uuid&page=2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for search got %d", resp.Code)
	}
	if svc.searchCalls != 1 {
		t.Fatalf("expected one search call, got %d", svc.searchCalls)
	}
	if svc.lastFilters["artistId"] != "not-a-uuid" {
		t.Fatalf("expected raw filter forwarded, got %v", svc.lastFilters)
	}
	if _, ok := svc.lastFilters["page"]; ok {
		t.Fatalf("pagination keys must not leak into filters: %v", svc.lastFilters)
	}
}

func TestFavoriteAddRejectsBadArtworkID(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	body := `{"artwork_id":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+uuid.NewString()+"/favorites", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad artwork id got %d", resp.Code)
	}
}

func TestFavoriteCheckRoute(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/favorites/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for favorite check got %d", resp.Code)
	}
}

func TestRecordSaleRoute(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	price := decimal.RequireFromString("150.00")
	body := `{"artwork_id":"` + uuid.NewString() + `","sale_price":` + price.String() + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for record sale got %d", resp.Code)
	}
}

func TestSubscriptionStatusRoute(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/"+uuid.NewString()+"/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for subscription status got %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig(), &stubArtworksService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
