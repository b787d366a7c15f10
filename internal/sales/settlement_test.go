package sales

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/metrics"
)

func setupSettlementTestService(t *testing.T) (*service, *db.Client) {
	t.Helper()

	// Single connection so racing settlements serialize on the pool and the
	// losers observe the committed SOLD row.
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:?cache=shared",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS artists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  specialty TEXT, location TEXT, born TEXT, education TEXT, website TEXT,
  bio TEXT, extended_bio TEXT, profile_image_url TEXT,
  featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME, updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS artworks (
  id TEXT PRIMARY KEY,
  artist_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT, medium TEXT, dimensions TEXT,
  year_created INTEGER, price NUMERIC,
  availability_status TEXT NOT NULL DEFAULT 'AVAILABLE',
  image_url TEXT,
  created_at DATETIME, updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  artwork_id TEXT NOT NULL UNIQUE,
  buyer_user_id TEXT,
  buyer_name TEXT,
  buyer_email TEXT,
  sale_price NUMERIC NOT NULL,
  sale_date DATETIME NOT NULL,
  payment_reference TEXT,
  shipping_address TEXT,
  notes TEXT,
  created_at DATETIME, updated_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	svc := &service{
		repo:        NewRepository(conn),
		dbClient:    client,
		artworkRepo: &fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{}},
		profileRepo: &fakeProfileLoader{},
		gateway:     &fakeGateway{},
		metrics:     metrics.NewCommerceMetrics(prometheus.NewRegistry()),
		logg:        testLogger(),
	}
	return svc, client
}

func createSettlementArtwork(t *testing.T, svc *service, client *db.Client, price string) *models.Artwork {
	t.Helper()

	conn := client.DB()
	artist := &models.Artist{ID: uuid.New(), Name: "Settlement Artist"}
	require.NoError(t, conn.Create(artist).Error)

	listed := decimal.RequireFromString(price)
	artwork := &models.Artwork{
		ID:                 uuid.New(),
		ArtistID:           artist.ID,
		Title:              "Settlement Piece",
		Price:              &listed,
		AvailabilityStatus: enums.AvailabilityAvailable,
	}
	require.NoError(t, conn.Create(artwork).Error)

	svc.artworkRepo.(*fakeArtworkLoader).rows[artwork.ID] = artwork
	return artwork
}

func countSaleRows(t *testing.T, client *db.Client, artworkID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&models.Sale{}).Where("artwork_id = ?", artworkID).Count(&count).Error)
	return count
}

func TestRecordSaleSecondAttemptIsStateConflict(t *testing.T) {
	svc, client := setupSettlementTestService(t)
	artwork := createSettlementArtwork(t, svc, client, "150.00")
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, RecordSaleInput{ArtworkID: artwork.ID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.00").Equal(sale.SalePrice), "price falls back to the listed price")
	assert.WithinDuration(t, time.Now().UTC(), sale.SaleDate, time.Minute, "date falls back to now")

	var current models.Artwork
	require.NoError(t, client.DB().First(&current, "id = ?", artwork.ID).Error)
	assert.Equal(t, enums.AvailabilitySold, current.AvailabilityStatus)

	_, err = svc.RecordSale(ctx, RecordSaleInput{ArtworkID: artwork.ID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, int64(1), countSaleRows(t, client, artwork.ID))
}

func TestRecordSaleExplicitPriceAndDate(t *testing.T) {
	svc, client := setupSettlementTestService(t)
	artwork := createSettlementArtwork(t, svc, client, "150.00")
	ctx := context.Background()

	price := decimal.RequireFromString("200.00")
	date := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		ArtworkID: artwork.ID,
		SalePrice: &price,
		SaleDate:  &date,
	})
	require.NoError(t, err)
	assert.True(t, price.Equal(sale.SalePrice))
	assert.True(t, date.Equal(sale.SaleDate))
	assert.Equal(t, int64(1), countSaleRows(t, client, artwork.ID))
}

func TestRecordSaleConcurrentSingleWinner(t *testing.T) {
	svc, client := setupSettlementTestService(t)
	artwork := createSettlementArtwork(t, svc, client, "150.00")
	ctx := context.Background()

	const callers = 8
	results := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(slot int) {
			defer wg.Done()
			_, results[slot] = svc.RecordSale(ctx, RecordSaleInput{ArtworkID: artwork.ID})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "loser errors carry a typed code: %v", err)
		assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, int64(1), countSaleRows(t, client, artwork.ID))

	var current models.Artwork
	require.NoError(t, client.DB().First(&current, "id = ?", artwork.ID).Error)
	assert.Equal(t, enums.AvailabilitySold, current.AvailabilityStatus)
}
