package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/pkg/enums"
)

// Profile holds gallery-side data for a user. The primary key is the stable
// identifier issued by the external identity provider, never generated here.
type Profile struct {
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey"`
	FirstName *string        `gorm:"column:first_name"`
	LastName  *string        `gorm:"column:last_name"`
	Role      enums.UserRole `gorm:"column:role;not null;default:'PUBLIC_USER'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
