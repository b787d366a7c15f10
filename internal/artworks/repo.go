package artworks

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
)

// Repository encapsulates artwork persistence and the catalog search query.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an artwork repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads an artwork without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.db.WithContext(ctx).First(&artwork, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artwork, nil
}

// FindByIDWithArtist loads an artwork with its owning artist preloaded.
func (r *Repository) FindByIDWithArtist(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.db.WithContext(ctx).Preload("Artist").First(&artwork, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &artwork, nil
}

// Search runs the catalog query. Predicates are AND-combined; the term match
// is a case-insensitive OR across title, description, medium and the owning
// artist's name.
func (r *Repository) Search(ctx context.Context, query SearchQuery) ([]models.Artwork, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Joins("JOIN artists ON artists.id = artworks.artist_id")

	if query.ArtistID != nil {
		base = base.Where("artworks.artist_id = ?", *query.ArtistID)
	}
	if query.Term != "" {
		pattern := "%" + strings.ToLower(query.Term) + "%"
		base = base.Where(
			"(LOWER(artworks.title) LIKE ? OR LOWER(artworks.description) LIKE ? OR LOWER(artworks.medium) LIKE ? OR LOWER(artists.name) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var artworks []models.Artwork
	err := base.Session(&gorm.Session{}).
		Select("artworks.*").
		Order(query.OrderClause()).
		Offset(query.Page.Offset()).
		Limit(query.Page.Limit()).
		Preload("Artist").
		Find(&artworks).Error
	if err != nil {
		return nil, 0, err
	}
	return artworks, total, nil
}

// ListByArtist returns all artworks for one artist, newest first.
func (r *Repository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Artwork, error) {
	var artworks []models.Artwork
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").Order("id DESC").
		Find(&artworks).Error
	if err != nil {
		return nil, err
	}
	return artworks, nil
}

// Create inserts a new artwork row.
func (r *Repository) Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	if err := r.db.WithContext(ctx).Create(artwork).Error; err != nil {
		return nil, err
	}
	return artwork, nil
}

// Save persists all columns of an existing artwork.
func (r *Repository) Save(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	if err := r.db.WithContext(ctx).Save(artwork).Error; err != nil {
		return nil, err
	}
	return artwork, nil
}

// UpdateAvailability sets the availability column unconditionally. Returns
// rows affected so callers can tell a missing artwork from a no-op.
func (r *Repository) UpdateAvailability(ctx context.Context, id uuid.UUID, status enums.AvailabilityStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Artwork{}).
		Where("id = ?", id).
		Update("availability_status", status)
	return res.RowsAffected, res.Error
}

// HasSale reports whether a sale row exists for the artwork.
func (r *Repository) HasSale(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("artwork_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// DeleteFavoritesForArtwork removes favorites pointing at the artwork.
func (r *Repository) DeleteFavoritesForArtwork(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("artwork_id = ?", id).
		Delete(&models.Favorite{}).
		Error
}

// DeleteMediaForArtwork removes premium media rows owned by the artwork.
func (r *Repository) DeleteMediaForArtwork(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", enums.OwnerKindArtwork, id).
		Delete(&models.PremiumMedia{}).
		Error
}

// ListMediaForArtwork loads the premium media rows owned by the artwork.
func (r *Repository) ListMediaForArtwork(ctx context.Context, id uuid.UUID) ([]models.PremiumMedia, error) {
	var media []models.PremiumMedia
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", enums.OwnerKindArtwork, id).
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

// Delete removes the artwork row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Artwork{}).
		Error
}
