package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/enums"
)

// Artwork is a catalog entry owned by an artist. A nil price means the piece
// is not for sale. Availability and the Sale row are only ever mutated inside
// the same transaction.
type Artwork struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ArtistID           uuid.UUID                `gorm:"column:artist_id;type:uuid;not null;index:artworks_artist_id_idx"`
	Artist             *Artist                  `gorm:"foreignKey:ArtistID"`
	Title              string                   `gorm:"column:title;not null"`
	Description        *string                  `gorm:"column:description"`
	Medium             *string                  `gorm:"column:medium"`
	Dimensions         *string                  `gorm:"column:dimensions"`
	YearCreated        *int                     `gorm:"column:year_created"`
	Price              *decimal.Decimal         `gorm:"column:price;type:numeric(12,2)"`
	AvailabilityStatus enums.AvailabilityStatus `gorm:"column:availability_status;not null;default:'AVAILABLE'"`
	ImageURL           *string                  `gorm:"column:image_url"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
