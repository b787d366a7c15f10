package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/enums"
)

// Subscription logs a confirmed lifetime purchase. One row per user ever,
// and one payment reference can back at most one subscription system-wide.
type Subscription struct {
	UserID           uuid.UUID        `gorm:"column:user_id;type:uuid;primaryKey"`
	PaymentReference string           `gorm:"column:payment_reference;not null;uniqueIndex:subscriptions_payment_reference_key"`
	PaymentAmount    decimal.Decimal  `gorm:"column:payment_amount;type:numeric(12,2);not null"`
	PaymentCurrency  string           `gorm:"column:payment_currency;not null"`
	PurchaseDate     time.Time        `gorm:"column:purchase_date;not null"`
	AccessType       enums.AccessType `gorm:"column:access_type;not null;default:'LIFETIME_UNLIMITED'"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
