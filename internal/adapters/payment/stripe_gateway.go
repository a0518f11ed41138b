// Package payment adapts the Stripe API to services.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"limpay/internal/core/domain"
	"limpay/internal/core/services"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	errIntentNotFound  = domain.NewError(domain.ErrPaymentNotConfirmed, "Payment not found")
	errIntentRejected  = domain.NewError(domain.ErrValidation, "Payment request rejected by processor")
	errProcessorFailed = domain.NewError(domain.ErrPaymentProvider, "Payment provider unavailable")
)

// StripeGateway implements services.PaymentGateway with Stripe PaymentIntents
type StripeGateway struct {
	api *client.API
}

var _ services.PaymentGateway = (*StripeGateway)(nil)

// NewStripeGateway creates a gateway whose HTTP calls are bounded by timeout
func NewStripeGateway(secretKey string, timeout time.Duration) *StripeGateway {
	return newStripeGateway(secretKey, timeout, "")
}

// newStripeGateway allows pointing the client at another API base URL
func newStripeGateway(secretKey string, timeout time.Duration, baseURL string) *StripeGateway {
	httpClient := &http.Client{Timeout: timeout}

	cfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeGateway{api: api}
}

// CreateIntent creates a PaymentIntent for amount in minor units
func (g *StripeGateway) CreateIntent(ctx context.Context, input services.CreateIntentInput) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.Amount.Shift(2).Round(0).IntPart()),
		Currency: stripe.String(input.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", input.UserID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		if rejected(err) {
			return nil, fmt.Errorf("%w: %v", errIntentRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", errProcessorFailed, err)
	}
	return toIntent(pi), nil
}

// RetrieveIntent reads a PaymentIntent with its latest charge expanded
func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		if rejected(err) {
			return nil, fmt.Errorf("%w: %v", errIntentNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", errProcessorFailed, err)
	}
	return toIntent(pi), nil
}

// rejected reports a request error about the intent itself. Auth failures,
// rate limits and 5xx are provider failures.
func rejected(err error) bool {
	var serr *stripe.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.HTTPStatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return false
	}
	return serr.HTTPStatusCode >= 400 && serr.HTTPStatusCode < 500
}

func toIntent(pi *stripe.PaymentIntent) *domain.PaymentIntent {
	intent := &domain.PaymentIntent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		UserID:       pi.Metadata["userId"],
	}
	if ch := pi.LatestCharge; ch != nil && ch.PaymentMethodDetails != nil && ch.PaymentMethodDetails.Card != nil {
		intent.CardLast4 = ch.PaymentMethodDetails.Card.Last4
	}
	return intent
}
