package models

import (
	"time"

	"github.com/google/uuid"
)

// Artist is a gallery artist. Deleting one cascades to its artworks at the
// application level, never through implicit FK actions.
type Artist struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Specialty       *string   `gorm:"column:specialty"`
	Location        *string   `gorm:"column:location"`
	Born            *string   `gorm:"column:born"`
	Education       *string   `gorm:"column:education"`
	Website         *string   `gorm:"column:website"`
	Bio             *string   `gorm:"column:bio"`
	ExtendedBio     *string   `gorm:"column:extended_bio"`
	ProfileImageURL *string   `gorm:"column:profile_image_url"`
	Featured        bool      `gorm:"column:featured;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
