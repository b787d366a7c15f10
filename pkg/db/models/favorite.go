package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to an artwork they favorited. The composite primary
// key makes a second insert for the same pair fail rather than upsert.
type Favorite struct {
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	ArtworkID   uuid.UUID `gorm:"column:artwork_id;type:uuid;primaryKey"`
	FavoritedAt time.Time `gorm:"column:favorited_at;autoCreateTime"`
}
