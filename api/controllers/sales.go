package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/sales"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

type artworkPaymentIntentPayload struct {
	ArtworkID string  `json:"artwork_id" validate:"required,uuid"`
	UserID    *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

type recordSalePayload struct {
	ArtworkID        string           `json:"artwork_id" validate:"required,uuid"`
	BuyerUserID      *string          `json:"buyer_user_id,omitempty" validate:"omitempty,uuid"`
	BuyerName        *string          `json:"buyer_name,omitempty"`
	BuyerEmail       *string          `json:"buyer_email,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	SaleDate         *time.Time       `json:"sale_date,omitempty"`
	PaymentReference *string          `json:"payment_reference,omitempty"`
	ShippingAddress  *string          `json:"shipping_address,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

// SalePaymentIntent creates a payment intent for one artwork purchase.
func SalePaymentIntent(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload artworkPaymentIntentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artworkID, err := uuid.Parse(payload.ArtworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artwork id"))
			return
		}

		var buyerUserID *uuid.UUID
		if payload.UserID != nil {
			parsed, err := uuid.Parse(*payload.UserID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}
			buyerUserID = &parsed
		}

		intent, err := svc.CreatePaymentIntentForArtwork(ctx, artworkID, buyerUserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}

// SaleRecord settles a purchase: it flips availability with the single-winner
// update and inserts the sale row in one transaction.
func SaleRecord(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload recordSalePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artworkID, err := uuid.Parse(payload.ArtworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artwork id"))
			return
		}

		var buyerUserID *uuid.UUID
		if payload.BuyerUserID != nil {
			parsed, err := uuid.Parse(*payload.BuyerUserID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer user id"))
				return
			}
			buyerUserID = &parsed
		}

		sale, err := svc.RecordSale(ctx, sales.RecordSaleInput{
			ArtworkID:        artworkID,
			BuyerUserID:      buyerUserID,
			BuyerName:        payload.BuyerName,
			BuyerEmail:       payload.BuyerEmail,
			SalePrice:        payload.SalePrice,
			SaleDate:         payload.SaleDate,
			PaymentReference: payload.PaymentReference,
			ShippingAddress:  payload.ShippingAddress,
			Notes:            payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// SaleGet returns one settlement record.
func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		saleID, err := parseUUIDParam(r, "saleId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sale, err := svc.GetSale(ctx, saleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// SalesRecent lists the latest settlements.
func SalesRecent(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.GetRecentSales(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SalesByBuyer lists settlements attributed to one buyer.
func SalesByBuyer(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.GetSalesByBuyer(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
