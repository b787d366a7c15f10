package subscriptions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudor-manea/lahinch/internal/profiles"
	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/metrics"
)

func setupSubscriptionsTestService(t *testing.T) (*service, *profiles.Repository) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  first_name TEXT,
  last_name TEXT,
  role TEXT NOT NULL DEFAULT 'PUBLIC_USER',
  created_at DATETIME, updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
  user_id TEXT PRIMARY KEY,
  payment_reference TEXT NOT NULL UNIQUE,
  payment_amount NUMERIC NOT NULL,
  payment_currency TEXT NOT NULL,
  purchase_date DATETIME NOT NULL,
  access_type TEXT NOT NULL DEFAULT 'LIFETIME_UNLIMITED',
  created_at DATETIME, updated_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, conn.Exec(stmt).Error)
	}

	profileRepo := profiles.NewRepository(conn)
	svc := &service{
		repo:        NewRepository(conn),
		profileRepo: profileRepo,
		dbClient:    client,
		gateway:     &fakeGateway{},
		cfg:         config.StripeConfig{SubscriptionAmountCents: 199},
		metrics:     metrics.NewCommerceMetrics(prometheus.NewRegistry()),
		logg:        logger.New(logger.Options{ServiceName: "test"}),
	}
	return svc, profileRepo
}

func TestConfirmPaymentGrantsSubscriberRole(t *testing.T) {
	svc, profileRepo := setupSubscriptionsTestService(t)
	ctx := context.Background()

	userID := uuid.New()
	_, err := profileRepo.Create(ctx, &models.Profile{UserID: userID, Role: enums.UserRolePublic})
	require.NoError(t, err)

	sub, err := svc.ConfirmPayment(ctx, "pi_confirm_1", userID, "1.99", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "pi_confirm_1", sub.PaymentReference)
	assert.Equal(t, "eur", sub.PaymentCurrency)
	assert.True(t, decimal.RequireFromString("1.99").Equal(sub.PaymentAmount))

	profile, err := profileRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSubscriber, profile.Role)

	status, err := svc.CheckUserSubscription(ctx, userID)
	require.NoError(t, err)
	assert.True(t, status.Subscribed)
}

func TestConfirmPaymentSecondConfirmIsConflict(t *testing.T) {
	svc, profileRepo := setupSubscriptionsTestService(t)
	ctx := context.Background()

	userID := uuid.New()
	_, err := profileRepo.Create(ctx, &models.Profile{UserID: userID, Role: enums.UserRolePublic})
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, "pi_confirm_2", userID, "1.99", "eur")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, "pi_confirm_3", userID, "1.99", "eur")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestConfirmPaymentMissingProfileIsNotFound(t *testing.T) {
	svc, _ := setupSubscriptionsTestService(t)

	_, err := svc.ConfirmPayment(context.Background(), "pi_confirm_4", uuid.New(), "1.99", "eur")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestConfirmPaymentLenientAmountFallsBack(t *testing.T) {
	svc, profileRepo := setupSubscriptionsTestService(t)
	ctx := context.Background()

	userID := uuid.New()
	_, err := profileRepo.Create(ctx, &models.Profile{UserID: userID, Role: enums.UserRolePublic})
	require.NoError(t, err)

	sub, err := svc.ConfirmPayment(ctx, "pi_confirm_5", userID, "not-a-number", "")
	require.NoError(t, err)
	assert.True(t, decimal.New(199, -2).Equal(sub.PaymentAmount))
	assert.Equal(t, "eur", sub.PaymentCurrency)
}
