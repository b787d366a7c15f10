package artists

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// Repository encapsulates artist persistence, including the row-level pieces
// of the application cascade that runs when an artist is removed.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an artist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads an artist by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).First(&artist, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

// List returns a page of artists ordered by name, with the total count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Artist, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Artist{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var artists []models.Artist
	err := r.db.WithContext(ctx).
		Order("name ASC").Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&artists).Error
	if err != nil {
		return nil, 0, err
	}
	return artists, total, nil
}

// ListFeatured returns all featured artists ordered by name.
func (r *Repository) ListFeatured(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("name ASC").Order("id ASC").
		Find(&artists).Error
	if err != nil {
		return nil, err
	}
	return artists, nil
}

// Create inserts a new artist row.
func (r *Repository) Create(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := r.db.WithContext(ctx).Create(artist).Error; err != nil {
		return nil, err
	}
	return artist, nil
}

// Save persists all columns of an existing artist.
func (r *Repository) Save(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := r.db.WithContext(ctx).Save(artist).Error; err != nil {
		return nil, err
	}
	return artist, nil
}

// ListArtworks loads all artworks owned by the artist.
func (r *Repository) ListArtworks(ctx context.Context, artistID uuid.UUID) ([]models.Artwork, error) {
	var artworks []models.Artwork
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Find(&artworks).Error
	if err != nil {
		return nil, err
	}
	return artworks, nil
}

// ListOwnedMedia loads premium media owned by the artist directly or through
// any of its artworks.
func (r *Repository) ListOwnedMedia(ctx context.Context, artistID uuid.UUID) ([]models.PremiumMedia, error) {
	var media []models.PremiumMedia
	err := r.db.WithContext(ctx).
		Where("(owner_kind = ? AND owner_id = ?) OR (owner_kind = ? AND owner_id IN (SELECT id FROM artworks WHERE artist_id = ?))",
			"ARTIST", artistID, "ARTWORK", artistID).
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// DeleteFavoritesForArtist removes favorites pointing at any of the artist's
// artworks.
func (r *Repository) DeleteFavoritesForArtist(ctx context.Context, artistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM favorites WHERE artwork_id IN (SELECT id FROM artworks WHERE artist_id = ?)`, artistID).
		Error
}

// DeleteSalesForArtist removes sale rows for any of the artist's artworks.
func (r *Repository) DeleteSalesForArtist(ctx context.Context, artistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM sales WHERE artwork_id IN (SELECT id FROM artworks WHERE artist_id = ?)`, artistID).
		Error
}

// DeleteMediaForArtist removes premium media rows owned by the artist or any
// of its artworks.
func (r *Repository) DeleteMediaForArtist(ctx context.Context, artistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM premium_media
WHERE (owner_kind = 'ARTIST' AND owner_id = ?)
   OR (owner_kind = 'ARTWORK' AND owner_id IN (SELECT id FROM artworks WHERE artist_id = ?))`,
			artistID, artistID).
		Error
}

// DeleteArtworksForArtist removes the artist's artwork rows.
func (r *Repository) DeleteArtworksForArtist(ctx context.Context, artistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Delete(&models.Artwork{}).
		Error
}

// Delete removes the artist row itself.
func (r *Repository) Delete(ctx context.Context, artistID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", artistID).
		Delete(&models.Artist{}).
		Error
}
