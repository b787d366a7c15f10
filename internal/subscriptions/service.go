package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/internal/profiles"
	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/metrics"
	"github.com/tudor-manea/lahinch/pkg/stripe"
)

type paymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency, description string, metadata map[string]string) (*stripe.Intent, error)
	Currency() string
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo        *Repository
	ProfileRepo *profiles.Repository
	DBClient    *db.Client
	Gateway     paymentGateway
	Stripe      config.StripeConfig
	Metrics     *metrics.CommerceMetrics
	Logger      *logger.Logger
}

// Service exposes the lifetime subscription flow.
type Service interface {
	CreatePaymentIntentForSubscription(ctx context.Context, userID uuid.UUID) (*PaymentIntentDTO, error)
	ConfirmPayment(ctx context.Context, paymentRef string, userID uuid.UUID, amount, currency string) (*SubscriptionDTO, error)
	CheckUserSubscription(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
}

type service struct {
	repo        *Repository
	profileRepo *profiles.Repository
	dbClient    *db.Client
	gateway     paymentGateway
	cfg         config.StripeConfig
	metrics     *metrics.CommerceMetrics
	logg        *logger.Logger
}

// NewService builds a subscription service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription repo is required")
	}
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.DBClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		profileRepo: params.ProfileRepo,
		dbClient:    params.DBClient,
		gateway:     params.Gateway,
		cfg:         params.Stripe,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// CreatePaymentIntentForSubscription asks the gateway for an intent at the
// fixed subscription price. No local state is checked or written; the
// idempotency guards live in the confirmation step.
func (s *service) CreatePaymentIntentForSubscription(ctx context.Context, userID uuid.UUID) (*PaymentIntentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	amount := s.cfg.SubscriptionAmountCents
	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, s.gateway.Currency(),
		"Lifetime gallery subscription", map[string]string{"user_id": userID.String()})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	s.metrics.IncPaymentIntent("subscription")
	return &PaymentIntentDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountMinor:     amount,
		Currency:        s.gateway.Currency(),
	}, nil
}

// ConfirmPayment grants the subscriber role and logs the purchase in one
// transaction. Caller-supplied settlement fields are treated leniently: an
// unparsable amount falls back to the nominal price, a blank currency to the
// configured one.
func (s *service) ConfirmPayment(ctx context.Context, paymentRef string, userID uuid.UUID, amount, currency string) (*SubscriptionDTO, error) {
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if _, err := s.profileRepo.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	paymentAmount, parsed := parseSettlementAmount(amount, s.nominalAmount())
	if !parsed {
		s.logg.Warn(s.logg.WithField(ctx, "amount", amount), "unparsable settlement amount, using nominal price")
	}
	paymentCurrency := strings.ToLower(strings.TrimSpace(currency))
	if paymentCurrency == "" {
		paymentCurrency = s.gateway.Currency()
	}

	sub := &models.Subscription{
		UserID:           userID,
		PaymentReference: paymentRef,
		PaymentAmount:    paymentAmount,
		PaymentCurrency:  paymentCurrency,
		PurchaseDate:     time.Now().UTC(),
		AccessType:       enums.AccessTypeLifetimeUnlimited,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		profileTx := s.profileRepo.WithTx(tx)
		if _, err := profileTx.UpdateRole(ctx, userID, enums.UserRoleSubscriber); err != nil {
			return err
		}
		_, err := s.repo.WithTx(tx).Create(ctx, sub)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "subscription already confirmed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm subscription")
	}

	s.metrics.IncSubscriptionConfirmed()
	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "subscription confirmed")
	return NewSubscriptionDTO(sub), nil
}

// CheckUserSubscription reports whether the user holds a subscription.
func (s *service) CheckUserSubscription(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatusDTO{Subscribed: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return &StatusDTO{Subscribed: true, Subscription: NewSubscriptionDTO(sub)}, nil
}

func (s *service) nominalAmount() decimal.Decimal {
	return decimal.New(s.cfg.SubscriptionAmountCents, -2)
}

// parseSettlementAmount parses a caller-supplied major-unit amount, reporting
// whether the parse succeeded. A failed parse returns the fallback.
func parseSettlementAmount(raw string, fallback decimal.Decimal) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, false
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil || !amount.IsPositive() {
		return fallback, false
	}
	return amount, true
}
