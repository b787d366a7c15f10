package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

// SubscriptionDTO is the subscription payload returned to clients.
type SubscriptionDTO struct {
	UserID           uuid.UUID       `json:"user_id"`
	PaymentReference string          `json:"payment_reference"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	PaymentCurrency  string          `json:"payment_currency"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	AccessType       string          `json:"access_type"`
}

// StatusDTO reports whether a user holds a subscription.
type StatusDTO struct {
	Subscribed   bool             `json:"subscribed"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
}

// PaymentIntentDTO carries what a client needs to complete the subscription
// payment.
type PaymentIntentDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
}

// NewSubscriptionDTO maps the persisted model to its API shape.
func NewSubscriptionDTO(sub *models.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		UserID:           sub.UserID,
		PaymentReference: sub.PaymentReference,
		PaymentAmount:    sub.PaymentAmount,
		PaymentCurrency:  sub.PaymentCurrency,
		PurchaseDate:     sub.PurchaseDate,
		AccessType:       sub.AccessType.String(),
	}
}
