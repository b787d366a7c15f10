package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

// markSoldQuery is the guarded availability transition. The WHERE clause is
// the concurrency primitive: of any number of racing settlements for the same
// artwork, exactly one observes an affected row.
const markSoldQuery = `UPDATE artworks SET availability_status = 'SOLD', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND availability_status = 'AVAILABLE'`

// Repository encapsulates sale persistence and the settlement transition on
// the artworks table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// MarkArtworkSold flips an AVAILABLE artwork to SOLD and reports how many
// rows changed. Zero means the artwork was missing or already SOLD.
func (r *Repository) MarkArtworkSold(ctx context.Context, artworkID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(markSoldQuery, artworkID)
	return res.RowsAffected, res.Error
}

// CreateSale inserts the sale row. The unique artwork_id constraint backs up
// the availability transition.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// FindByID loads a sale with its artwork.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).Preload("Artwork").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListByArtwork returns sales for one artwork. At most one row can exist, but
// the read stays shaped like the other list queries.
func (r *Repository) ListByArtwork(ctx context.Context, artworkID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Where("artwork_id = ?", artworkID).
		Order("sale_date DESC").Order("id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// ListByBuyer returns the buyer's sales, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerUserID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Artwork").
		Where("buyer_user_id = ?", buyerUserID).
		Order("sale_date DESC").Order("id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// ListRecent returns the most recent sales across the catalog.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Artwork").
		Order("sale_date DESC").Order("id DESC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
