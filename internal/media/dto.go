package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

// MediaDTO is the premium media payload returned to clients.
type MediaDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Kind            string    `json:"kind"`
	FileURL         string    `json:"file_url"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	OwnerKind       string    `json:"owner_kind"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateResultDTO returns the updated media plus any storage objects that
// could not be cleaned up along the way.
type UpdateResultDTO struct {
	Media         MediaDTO `json:"media"`
	CleanupErrors []string `json:"cleanup_errors,omitempty"`
}

// DeleteResultDTO reports a completed removal and its cleanup leftovers.
type DeleteResultDTO struct {
	CleanupErrors []string `json:"cleanup_errors,omitempty"`
}

// NewMediaDTO maps the persisted model to its API shape.
func NewMediaDTO(media *models.PremiumMedia) *MediaDTO {
	return &MediaDTO{
		ID:              media.ID,
		Title:           media.Title,
		Description:     media.Description,
		Kind:            media.Kind.String(),
		FileURL:         media.FileURL,
		ThumbnailURL:    media.ThumbnailURL,
		DurationSeconds: media.DurationSeconds,
		OwnerKind:       media.OwnerKind.String(),
		OwnerID:         media.OwnerID,
		CreatedAt:       media.CreatedAt,
		UpdatedAt:       media.UpdatedAt,
	}
}

func newMediaDTOs(rows []models.PremiumMedia) []MediaDTO {
	items := make([]MediaDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewMediaDTO(&rows[i]))
	}
	return items
}
