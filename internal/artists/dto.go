package artists

import (
	"time"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

// ArtistDTO is the artist payload returned to clients.
type ArtistDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Specialty       *string   `json:"specialty,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Born            *string   `json:"born,omitempty"`
	Education       *string   `json:"education,omitempty"`
	Website         *string   `json:"website,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ExtendedBio     *string   `json:"extended_bio,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ArtistListDTO is a page of artists with pagination metadata.
type ArtistListDTO struct {
	Items []ArtistDTO     `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// DeleteResultDTO reports a completed artist removal. CleanupErrors carries
// the messages of any storage objects that could not be removed; the rows are
// gone either way.
type DeleteResultDTO struct {
	DeletedArtworks int      `json:"deleted_artworks"`
	DeletedMedia    int      `json:"deleted_media"`
	CleanupErrors   []string `json:"cleanup_errors,omitempty"`
}

// NewArtistDTO maps the persisted model to its API shape.
func NewArtistDTO(artist *models.Artist) *ArtistDTO {
	return &ArtistDTO{
		ID:              artist.ID,
		Name:            artist.Name,
		Specialty:       artist.Specialty,
		Location:        artist.Location,
		Born:            artist.Born,
		Education:       artist.Education,
		Website:         artist.Website,
		Bio:             artist.Bio,
		ExtendedBio:     artist.ExtendedBio,
		ProfileImageURL: artist.ProfileImageURL,
		Featured:        artist.Featured,
		CreatedAt:       artist.CreatedAt,
		UpdatedAt:       artist.UpdatedAt,
	}
}

func newArtistListDTO(artists []models.Artist, meta pagination.Meta) ArtistListDTO {
	items := make([]ArtistDTO, 0, len(artists))
	for i := range artists {
		items = append(items, *NewArtistDTO(&artists[i]))
	}
	return ArtistListDTO{Items: items, Meta: meta}
}
