package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

// SaleDTO is the sale payload returned to clients.
type SaleDTO struct {
	ID               uuid.UUID       `json:"id"`
	ArtworkID        uuid.UUID       `json:"artwork_id"`
	ArtworkTitle     string          `json:"artwork_title,omitempty"`
	BuyerUserID      *uuid.UUID      `json:"buyer_user_id,omitempty"`
	BuyerName        *string         `json:"buyer_name,omitempty"`
	BuyerEmail       *string         `json:"buyer_email,omitempty"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	SaleDate         time.Time       `json:"sale_date"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	ShippingAddress  *string         `json:"shipping_address,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PaymentIntentDTO carries what a client needs to complete a Stripe payment.
type PaymentIntentDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
}

// NewSaleDTO maps the persisted model to its API shape.
func NewSaleDTO(sale *models.Sale) *SaleDTO {
	dto := &SaleDTO{
		ID:               sale.ID,
		ArtworkID:        sale.ArtworkID,
		BuyerUserID:      sale.BuyerUserID,
		BuyerName:        sale.BuyerName,
		BuyerEmail:       sale.BuyerEmail,
		SalePrice:        sale.SalePrice,
		SaleDate:         sale.SaleDate,
		PaymentReference: sale.PaymentReference,
		ShippingAddress:  sale.ShippingAddress,
		Notes:            sale.Notes,
		CreatedAt:        sale.CreatedAt,
	}
	if sale.Artwork != nil {
		dto.ArtworkTitle = sale.Artwork.Title
	}
	return dto
}

func newSaleDTOs(sales []models.Sale) []SaleDTO {
	items := make([]SaleDTO, 0, len(sales))
	for i := range sales {
		items = append(items, *NewSaleDTO(&sales[i]))
	}
	return items
}
