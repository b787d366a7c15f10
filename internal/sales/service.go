package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/metrics"
	"github.com/tudor-manea/lahinch/pkg/stripe"
)

const recentSalesDefaultLimit = 20

type artworkLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
}

type profileLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type paymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency, description string, metadata map[string]string) (*stripe.Intent, error)
	Currency() string
}

// ServiceParams groups dependencies for the sales service.
type ServiceParams struct {
	Repo        *Repository
	DBClient    *db.Client
	ArtworkRepo artworkLoader
	ProfileRepo profileLoader
	Gateway     paymentGateway
	Metrics     *metrics.CommerceMetrics
	Logger      *logger.Logger
}

// Service exposes the artwork settlement flow: payment intent creation first,
// then recording the completed sale.
type Service interface {
	CreatePaymentIntentForArtwork(ctx context.Context, artworkID uuid.UUID, buyerUserID *uuid.UUID) (*PaymentIntentDTO, error)
	RecordSale(ctx context.Context, input RecordSaleInput) (*SaleDTO, error)
	GetSale(ctx context.Context, saleID uuid.UUID) (*SaleDTO, error)
	GetSalesByArtwork(ctx context.Context, artworkID uuid.UUID) ([]SaleDTO, error)
	GetSalesByBuyer(ctx context.Context, buyerUserID uuid.UUID) ([]SaleDTO, error)
	GetRecentSales(ctx context.Context, limit int) ([]SaleDTO, error)
}

// RecordSaleInput holds the settlement payload. SalePrice and SaleDate are
// optional; they fall back to the artwork's price and the current time.
type RecordSaleInput struct {
	ArtworkID        uuid.UUID
	BuyerUserID      *uuid.UUID
	BuyerName        *string
	BuyerEmail       *string
	SalePrice        *decimal.Decimal
	SaleDate         *time.Time
	PaymentReference *string
	ShippingAddress  *string
	Notes            *string
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	artworkRepo artworkLoader
	profileRepo profileLoader
	gateway     paymentGateway
	metrics     *metrics.CommerceMetrics
	logg        *logger.Logger
}

// NewService builds a sales service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales repo is required")
	}
	if params.DBClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.ArtworkRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork repo is required")
	}
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		dbClient:    params.DBClient,
		artworkRepo: params.ArtworkRepo,
		profileRepo: params.ProfileRepo,
		gateway:     params.Gateway,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// CreatePaymentIntentForArtwork asks the gateway for a payment intent
// covering the artwork's listed price. Nothing is written locally and no
// transaction spans the gateway call.
func (s *service) CreatePaymentIntentForArtwork(ctx context.Context, artworkID uuid.UUID, buyerUserID *uuid.UUID) (*PaymentIntentDTO, error) {
	artwork, err := s.loadArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if artwork.AvailabilityStatus != enums.AvailabilityAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "artwork is not available for sale")
	}
	if artwork.Price == nil || !artwork.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "artwork has no sale price")
	}

	amount := amountMinorUnits(*artwork.Price)
	metadata := map[string]string{"artwork_id": artwork.ID.String()}
	if buyerUserID != nil && *buyerUserID != uuid.Nil {
		metadata["user_id"] = buyerUserID.String()
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, amount, s.gateway.Currency(),
		fmt.Sprintf("Sale of artwork: %s", artwork.Title), metadata)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	s.metrics.IncPaymentIntent("artwork")
	return &PaymentIntentDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountMinor:     amount,
		Currency:        s.gateway.Currency(),
	}, nil
}

// RecordSale settles an artwork: the guarded SOLD transition and the sale
// insert commit together or not at all. A second settlement attempt for the
// same artwork fails on the transition, making the operation level-safe to
// retry from the caller's side.
func (s *service) RecordSale(ctx context.Context, input RecordSaleInput) (*SaleDTO, error) {
	artwork, err := s.loadArtwork(ctx, input.ArtworkID)
	if err != nil {
		return nil, err
	}
	if input.BuyerUserID != nil && *input.BuyerUserID != uuid.Nil {
		if err := s.ensureProfile(ctx, *input.BuyerUserID); err != nil {
			return nil, err
		}
	}

	salePrice, err := resolveSalePrice(input.SalePrice, artwork.Price)
	if err != nil {
		return nil, err
	}
	saleDate := time.Now().UTC()
	if input.SaleDate != nil && !input.SaleDate.IsZero() {
		saleDate = *input.SaleDate
	}

	sale := &models.Sale{
		ID:               uuid.New(),
		ArtworkID:        artwork.ID,
		BuyerUserID:      normalizeBuyerID(input.BuyerUserID),
		BuyerName:        trimPtr(input.BuyerName),
		BuyerEmail:       trimPtr(input.BuyerEmail),
		SalePrice:        salePrice,
		SaleDate:         saleDate,
		PaymentReference: trimPtr(input.PaymentReference),
		ShippingAddress:  trimPtr(input.ShippingAddress),
		Notes:            trimPtr(input.Notes),
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		affected, err := txRepo.MarkArtworkSold(ctx, artwork.ID)
		if err != nil {
			return err
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "artwork is not available for sale")
		}

		_, err = txRepo.CreateSale(ctx, sale)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "sales_artwork_id_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "artwork already sold")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sale")
	}

	s.metrics.IncSaleRecorded()
	s.logg.Info(s.logg.WithField(ctx, "artwork_id", artwork.ID.String()), "sale recorded")
	return NewSaleDTO(sale), nil
}

// GetSale loads a single sale.
func (s *service) GetSale(ctx context.Context, saleID uuid.UUID) (*SaleDTO, error) {
	if saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return NewSaleDTO(sale), nil
}

// GetSalesByArtwork returns the sale history for an artwork.
func (s *service) GetSalesByArtwork(ctx context.Context, artworkID uuid.UUID) ([]SaleDTO, error) {
	if _, err := s.loadArtwork(ctx, artworkID); err != nil {
		return nil, err
	}
	sales, err := s.repo.ListByArtwork(ctx, artworkID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return newSaleDTOs(sales), nil
}

// GetSalesByBuyer returns a buyer's purchases, newest first.
func (s *service) GetSalesByBuyer(ctx context.Context, buyerUserID uuid.UUID) ([]SaleDTO, error) {
	if err := s.ensureProfile(ctx, buyerUserID); err != nil {
		return nil, err
	}
	sales, err := s.repo.ListByBuyer(ctx, buyerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return newSaleDTOs(sales), nil
}

// GetRecentSales returns the most recent settlements.
func (s *service) GetRecentSales(ctx context.Context, limit int) ([]SaleDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = recentSalesDefaultLimit
	}
	sales, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent sales")
	}
	return newSaleDTOs(sales), nil
}

func (s *service) loadArtwork(ctx context.Context, artworkID uuid.UUID) (*models.Artwork, error) {
	if artworkID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	artwork, err := s.artworkRepo.FindByID(ctx, artworkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artwork")
	}
	return artwork, nil
}

func (s *service) ensureProfile(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.profileRepo.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "buyer profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return nil
}

// amountMinorUnits converts a major-unit price into the currency's smallest
// unit, truncating any sub-cent remainder.
func amountMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).IntPart()
}

// resolveSalePrice picks the caller's price when given, otherwise the
// artwork's listed price.
func resolveSalePrice(input *decimal.Decimal, listed *decimal.Decimal) (decimal.Decimal, error) {
	if input != nil {
		if !input.IsPositive() {
			return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive")
		}
		return *input, nil
	}
	if listed == nil || !listed.IsPositive() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "sale price is required for unpriced artwork")
	}
	return *listed, nil
}

func normalizeBuyerID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
