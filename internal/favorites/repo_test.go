package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

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
		`CREATE TABLE IF NOT EXISTS favorites (
  user_id TEXT NOT NULL,
  artwork_id TEXT NOT NULL,
  favorited_at DATETIME,
  PRIMARY KEY (user_id, artwork_id)
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newFavoritesTestService(t *testing.T, db *gorm.DB, userID, artworkID uuid.UUID, artistID uuid.UUID) *service {
	t.Helper()

	require.NoError(t, db.Create(&models.Artist{ID: artistID, Name: "Test Artist"}).Error)
	require.NoError(t, db.Create(&models.Artwork{ID: artworkID, ArtistID: artistID, Title: "Test Piece", AvailabilityStatus: "AVAILABLE"}).Error)

	return &service{
		repo: NewRepository(db),
		artworkRepo: &fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{
			artworkID: {ID: artworkID},
		}},
		profileRepo: &fakeProfileLoader{rows: map[uuid.UUID]*models.Profile{
			userID: {UserID: userID},
		}},
	}
}

func TestAddDuplicateIsConflict(t *testing.T) {
	db := setupFavoritesTestDB(t)
	userID, artworkID := uuid.New(), uuid.New()
	svc := newFavoritesTestService(t, db, userID, artworkID, uuid.New())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, artworkID))

	err := svc.Add(ctx, userID, artworkID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRemoveAbsentIsNotFound(t *testing.T) {
	db := setupFavoritesTestDB(t)
	userID, artworkID := uuid.New(), uuid.New()
	svc := newFavoritesTestService(t, db, userID, artworkID, uuid.New())
	ctx := context.Background()

	err := svc.Remove(ctx, userID, artworkID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.NoError(t, svc.Add(ctx, userID, artworkID))
	require.NoError(t, svc.Remove(ctx, userID, artworkID))

	favorited, err := svc.IsFavorited(ctx, userID, artworkID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestListByUserJoinsArtworkData(t *testing.T) {
	db := setupFavoritesTestDB(t)
	userID, artworkID := uuid.New(), uuid.New()
	svc := newFavoritesTestService(t, db, userID, artworkID, uuid.New())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, artworkID))

	page, err := svc.ListByUser(ctx, userID, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, artworkID, page.Items[0].ArtworkID)
	assert.Equal(t, "Test Piece", page.Items[0].Title)
	assert.Equal(t, "Test Artist", page.Items[0].ArtistName)
	assert.Equal(t, int64(1), page.Meta.TotalCount)
}
