package stripe

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/paymentintent"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

var errSecretKeyRequired = errors.New("stripe secret key is required")

// Intent is the slice of a Stripe payment intent the gallery cares about.
type Intent struct {
	ID           string
	ClientSecret string
}

// Client wraps Stripe's PaymentIntents API.
type Client struct {
	currency string
}

// NewClient initializes Stripe once with the configured secret key.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}
	stripe.Key = secretKey

	if logg != nil {
		logg.Info(ctx, "stripe client initialized")
	}

	return &Client{currency: strings.ToLower(cfg.Currency)}, nil
}

// Currency returns the single configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreatePaymentIntent asks Stripe for a payment intent in the currency's
// smallest unit and returns its id and client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency, description string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:  ctx,
			Metadata: metadata,
		},
		Amount:      stripe.Int64(amountMinorUnits),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
