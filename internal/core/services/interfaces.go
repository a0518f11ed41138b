package services

import (
	"context"

	"limpay/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Note: AuthService implementation is in auth_service.go
// Note: PaymentService implementation is in payment_service.go

// PaymentGateway is the external card processor. It is the source of truth
// for whether a payment succeeded.
type PaymentGateway interface {
	// CreateIntent opens a payment the front end confirms with the client secret
	CreateIntent(ctx context.Context, input CreateIntentInput) (*domain.PaymentIntent, error)
	// RetrieveIntent reads the processor's current view of a payment.
	// Unknown ids fail with an error of kind domain.ErrPaymentNotConfirmed,
	// transport failures with domain.ErrPaymentProvider.
	RetrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error)
}

// CreateIntentInput for opening a payment with the processor
type CreateIntentInput struct {
	Amount   decimal.Decimal
	Currency string
	UserID   string
}
