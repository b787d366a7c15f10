package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/enums"
)

// PremiumMedia attaches a subscriber-only file to exactly one owner, either
// an artist or an artwork. The (OwnerKind, OwnerID) pair is the whole
// relation; the concrete owner row is resolved on read by a join chosen by
// kind, so no denormalized owner reference can ever disagree with the tag.
type PremiumMedia struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string          `gorm:"column:title;not null"`
	Description     *string         `gorm:"column:description"`
	Kind            enums.MediaKind `gorm:"column:kind;not null"`
	FileURL         string          `gorm:"column:file_url;not null"`
	ThumbnailURL    *string         `gorm:"column:thumbnail_url"`
	DurationSeconds *int            `gorm:"column:duration_seconds"`
	OwnerKind       enums.OwnerKind `gorm:"column:owner_kind;not null;index:premium_media_owner_idx,priority:1"`
	OwnerID         uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index:premium_media_owner_idx,priority:2"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
