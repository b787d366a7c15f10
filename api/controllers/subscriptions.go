package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/subscriptions"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

type subscriptionPaymentIntentPayload struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type subscriptionConfirmPayload struct {
	UserID           string `json:"user_id" validate:"required,uuid"`
	PaymentReference string `json:"payment_reference" validate:"required"`
	Amount           string `json:"amount,omitempty"`
	Currency         string `json:"currency,omitempty"`
}

// SubscriptionPaymentIntent creates a payment intent for the lifetime
// subscription at the fixed configured price.
func SubscriptionPaymentIntent(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload subscriptionPaymentIntentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		intent, err := svc.CreatePaymentIntentForSubscription(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}

// SubscriptionConfirm records the settled subscription and promotes the
// profile to SUBSCRIBER.
func SubscriptionConfirm(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload subscriptionConfirmPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		subscription, err := svc.ConfirmPayment(ctx, payload.PaymentReference, userID, payload.Amount, payload.Currency)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, subscription)
	}
}

// SubscriptionStatus reports whether the user holds a subscription.
func SubscriptionStatus(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := svc.CheckUserSubscription(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
