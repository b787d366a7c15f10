package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

// ProfileDTO is the profile payload returned to clients.
type ProfileDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfileDTO maps the persisted model to its API shape.
func NewProfileDTO(profile *models.Profile) *ProfileDTO {
	return &ProfileDTO{
		UserID:    profile.UserID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Role:      profile.Role.String(),
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
