package favorites

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// FavoriteDTO is one favorited artwork in a user's list.
type FavoriteDTO struct {
	ArtworkID          uuid.UUID        `json:"artwork_id"`
	FavoritedAt        time.Time        `json:"favorited_at"`
	Title              string           `json:"title"`
	ArtistID           uuid.UUID        `json:"artist_id"`
	ArtistName         string           `json:"artist_name"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	AvailabilityStatus string           `json:"availability_status"`
	ImageURL           *string          `json:"image_url,omitempty"`
}

// FavoriteListDTO is a page of favorites with pagination metadata.
type FavoriteListDTO struct {
	Items []FavoriteDTO   `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

func newFavoriteListDTO(records []favoriteRecord, meta pagination.Meta) FavoriteListDTO {
	items := make([]FavoriteDTO, 0, len(records))
	for _, record := range records {
		items = append(items, FavoriteDTO{
			ArtworkID:          record.ArtworkID,
			FavoritedAt:        record.FavoritedAt,
			Title:              record.Title,
			ArtistID:           record.ArtistID,
			ArtistName:         record.ArtistName,
			Price:              record.Price,
			AvailabilityStatus: record.AvailabilityStatus,
			ImageURL:           record.ImageURL,
		})
	}
	return FavoriteListDTO{Items: items, Meta: meta}
}
