package favorites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// favoriteRecord is the joined row returned by the list query.
type favoriteRecord struct {
	ArtworkID          uuid.UUID        `gorm:"column:artwork_id"`
	FavoritedAt        time.Time        `gorm:"column:favorited_at"`
	Title              string           `gorm:"column:title"`
	ArtistID           uuid.UUID        `gorm:"column:artist_id"`
	ArtistName         string           `gorm:"column:artist_name"`
	Price              *decimal.Decimal `gorm:"column:price"`
	AvailabilityStatus string           `gorm:"column:availability_status"`
	ImageURL           *string          `gorm:"column:image_url"`
}

// Repository encapsulates favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Add inserts the favorite pair. The composite primary key rejects
// duplicates at the database level.
func (r *Repository) Add(ctx context.Context, userID, artworkID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Create(&models.Favorite{UserID: userID, ArtworkID: artworkID}).
		Error
}

// Remove deletes the favorite pair and reports how many rows went away.
func (r *Repository) Remove(ctx context.Context, userID, artworkID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		Delete(&models.Favorite{})
	return res.RowsAffected, res.Error
}

// Exists reports whether the pair is already present.
func (r *Repository) Exists(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns a page of the user's favorites, newest first, with
// enough artwork data to render a gallery card.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]favoriteRecord, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var records []favoriteRecord
	err = r.db.WithContext(ctx).
		Table("favorites f").
		Select("f.artwork_id, f.favorited_at, a.title, a.artist_id, ar.name AS artist_name, a.price, a.availability_status, a.image_url").
		Joins("JOIN artworks a ON a.id = f.artwork_id").
		Joins("JOIN artists ar ON ar.id = a.artist_id").
		Where("f.user_id = ?", userID).
		Order("f.favorited_at DESC").Order("f.artwork_id DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
