package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records the one-time sale of an artwork. Buyer name and email are
// snapshotted so the record outlives any buyer account. SalePrice is a
// snapshot independent of the artwork's mutable price.
type Sale struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ArtworkID        uuid.UUID       `gorm:"column:artwork_id;type:uuid;not null;uniqueIndex:sales_artwork_id_key"`
	Artwork          *Artwork        `gorm:"foreignKey:ArtworkID"`
	BuyerUserID      *uuid.UUID      `gorm:"column:buyer_user_id;type:uuid;index:sales_buyer_user_id_idx"`
	BuyerName        *string         `gorm:"column:buyer_name"`
	BuyerEmail       *string         `gorm:"column:buyer_email"`
	SalePrice        decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2);not null"`
	SaleDate         time.Time       `gorm:"column:sale_date;not null"`
	PaymentReference *string         `gorm:"column:payment_reference"`
	ShippingAddress  *string         `gorm:"column:shipping_address"`
	Notes            *string         `gorm:"column:notes"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
