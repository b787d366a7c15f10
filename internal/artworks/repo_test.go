package artworks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

func setupArtworksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	artists := `
CREATE TABLE IF NOT EXISTS artists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  specialty TEXT,
  location TEXT,
  born TEXT,
  education TEXT,
  website TEXT,
  bio TEXT,
  extended_bio TEXT,
  profile_image_url TEXT,
  featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	artworks := `
CREATE TABLE IF NOT EXISTS artworks (
  id TEXT PRIMARY KEY,
  artist_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  medium TEXT,
  dimensions TEXT,
  year_created INTEGER,
  price NUMERIC,
  availability_status TEXT NOT NULL DEFAULT 'AVAILABLE',
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(artists).Error)
	require.NoError(t, db.Exec(artworks).Error)
	return db
}

func createTestArtist(t *testing.T, db *gorm.DB, name string) *models.Artist {
	t.Helper()
	artist := &models.Artist{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(artist).Error)
	return artist
}

func createTestArtwork(t *testing.T, db *gorm.DB, artistID uuid.UUID, title string) *models.Artwork {
	t.Helper()
	artwork := &models.Artwork{
		ID:                 uuid.New(),
		ArtistID:           artistID,
		Title:              title,
		AvailabilityStatus: enums.AvailabilityAvailable,
	}
	require.NoError(t, db.Create(artwork).Error)
	return artwork
}

func TestSearchTermMatchesTitleAndArtistName(t *testing.T) {
	db := setupArtworksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	painter := createTestArtist(t, db, "Fionnuala Cliffscape")
	sculptor := createTestArtist(t, db, "Ronan Quarry")
	byTitle := createTestArtwork(t, db, sculptor.ID, "Cliffscape at Dusk")
	byArtist := createTestArtwork(t, db, painter.ID, "Untitled Study")
	createTestArtwork(t, db, sculptor.ID, "Granite Form")

	query := ParseSearchQuery(pagination.Params{Page: 1, PageSize: 10}, nil, "cliffscape", "")
	rows, total, err := repo.Search(ctx, query)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	found := map[uuid.UUID]bool{}
	for _, row := range rows {
		found[row.ID] = true
	}
	assert.True(t, found[byTitle.ID], "expected title match")
	assert.True(t, found[byArtist.ID], "expected artist name match")
}

func TestSearchFiltersByArtist(t *testing.T) {
	db := setupArtworksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := createTestArtist(t, db, "Aoife Harbourlight")
	other := createTestArtist(t, db, "Somebody Else")
	keep := createTestArtwork(t, db, mine.ID, "Harbour Morning")
	createTestArtwork(t, db, other.ID, "Harbour Evening")

	query := ParseSearchQuery(
		pagination.Params{Page: 1, PageSize: 10},
		map[string]string{FilterArtistID: mine.ID.String()},
		"harbour",
		"",
	)
	rows, total, err := repo.Search(ctx, query)
	require.NoError(t, err)

	require.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.ID, rows[0].ID)
	require.NotNil(t, rows[0].Artist)
	assert.Equal(t, "Aoife Harbourlight", rows[0].Artist.Name)
}

func TestUpdateAvailabilityReportsRowsAffected(t *testing.T) {
	db := setupArtworksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	artist := createTestArtist(t, db, "Availability Artist")
	artwork := createTestArtwork(t, db, artist.ID, "Availability Piece")

	affected, err := repo.UpdateAvailability(ctx, artwork.ID, enums.AvailabilitySold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateAvailability(ctx, uuid.New(), enums.AvailabilitySold)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
