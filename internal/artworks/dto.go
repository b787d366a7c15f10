package artworks

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// ArtworkDTO is the artwork payload returned to clients. ArtistName is filled
// when the owning artist was loaded with the row.
type ArtworkDTO struct {
	ID                 uuid.UUID        `json:"id"`
	ArtistID           uuid.UUID        `json:"artist_id"`
	ArtistName         string           `json:"artist_name,omitempty"`
	Title              string           `json:"title"`
	Description        *string          `json:"description,omitempty"`
	Medium             *string          `json:"medium,omitempty"`
	Dimensions         *string          `json:"dimensions,omitempty"`
	YearCreated        *int             `json:"year_created,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	AvailabilityStatus string           `json:"availability_status"`
	ImageURL           *string          `json:"image_url,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ArtworkListDTO is a page of artworks with pagination metadata.
type ArtworkListDTO struct {
	Items []ArtworkDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// DeleteResultDTO reports a completed artwork removal. CleanupErrors carries
// storage objects that could not be removed; the rows are gone either way.
type DeleteResultDTO struct {
	DeletedMedia  int      `json:"deleted_media"`
	CleanupErrors []string `json:"cleanup_errors,omitempty"`
}

// NewArtworkDTO maps the persisted model to its API shape.
func NewArtworkDTO(artwork *models.Artwork) *ArtworkDTO {
	dto := &ArtworkDTO{
		ID:                 artwork.ID,
		ArtistID:           artwork.ArtistID,
		Title:              artwork.Title,
		Description:        artwork.Description,
		Medium:             artwork.Medium,
		Dimensions:         artwork.Dimensions,
		YearCreated:        artwork.YearCreated,
		Price:              artwork.Price,
		AvailabilityStatus: artwork.AvailabilityStatus.String(),
		ImageURL:           artwork.ImageURL,
		CreatedAt:          artwork.CreatedAt,
		UpdatedAt:          artwork.UpdatedAt,
	}
	if artwork.Artist != nil {
		dto.ArtistName = artwork.Artist.Name
	}
	return dto
}

func newArtworkListDTO(artworks []models.Artwork, meta pagination.Meta) ArtworkListDTO {
	items := make([]ArtworkDTO, 0, len(artworks))
	for i := range artworks {
		items = append(items, *NewArtworkDTO(&artworks[i]))
	}
	return ArtworkListDTO{Items: items, Meta: meta}
}
