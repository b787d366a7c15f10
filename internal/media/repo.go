package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
)

// Repository encapsulates premium media persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a media row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PremiumMedia, error) {
	var media models.PremiumMedia
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// Create inserts a new media row.
func (r *Repository) Create(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// Save persists all columns of an existing media row.
func (r *Repository) Save(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error) {
	if err := r.db.WithContext(ctx).Save(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// Delete removes the media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PremiumMedia{}).
		Error
}

// ListByOwner returns all media rows attached to one owner, newest first.
func (r *Repository) ListByOwner(ctx context.Context, kind enums.OwnerKind, ownerID uuid.UUID) ([]models.PremiumMedia, error) {
	var media []models.PremiumMedia
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}
