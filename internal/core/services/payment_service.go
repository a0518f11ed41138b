package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/domain"
	"limpay/internal/pkg/metrics"
	"limpay/internal/pkg/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrAmountMismatch is returned when the recorded amount differs from the confirmed charge
var ErrAmountMismatch = domain.NewError(domain.ErrPaymentNotConfirmed, "Payment amount does not match the confirmed charge")

// ErrCurrencyMismatch is returned when the charge was made in another currency
var ErrCurrencyMismatch = domain.NewError(domain.ErrPaymentNotConfirmed, "Payment currency does not match")

// ErrForeignIntent is returned when the charge was opened for another account
var ErrForeignIntent = domain.NewError(domain.ErrPaymentNotConfirmed, "Payment does not belong to this account")

var errProviderUnavailable = domain.NewError(domain.ErrPaymentProvider, "Payment provider unavailable")

// PaymentService records confirmed card payments against fee balances
type PaymentService struct {
	gateway PaymentGateway
	txnRepo repositories.TransactionRepository
	uow     repositories.UnitOfWork
	cfg     *config.Config
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	gateway PaymentGateway,
	txnRepo repositories.TransactionRepository,
	uow repositories.UnitOfWork,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		txnRepo: txnRepo,
		uow:     uow,
		cfg:     cfg,
	}
}

// CreateIntentRequest represents create-payment-intent input
type CreateIntentRequest struct {
	Amount   decimal.Decimal `json:"amount" label:"Amount" validate:"gte=0.01"`
	Currency string          `json:"currency" label:"Currency" validate:"omitempty,len=3,alpha"`
}

// RecordPaymentInput represents record-payment input
type RecordPaymentInput struct {
	Amount          decimal.Decimal `json:"amount" label:"Amount" validate:"gte=0.01"`
	FeeID           string          `json:"feeId" label:"Fee ID" validate:"required,notblank"`
	Description     string          `json:"description" label:"Description" validate:"required,notblank,max=255"`
	PaymentIntentID string          `json:"paymentIntentId" label:"Payment Intent ID" validate:"required,notblank"`
}

// CreateIntent opens a payment with the processor on behalf of userID
func (s *PaymentService) CreateIntent(ctx context.Context, userID string, input *CreateIntentRequest) (*domain.PaymentIntent, error) {
	input.Currency = strings.ToLower(strings.TrimSpace(input.Currency))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkScale(input.Amount); err != nil {
		return nil, err
	}
	if input.Currency == "" {
		input.Currency = s.cfg.Payment.DefaultCurrency
	}
	if !strings.EqualFold(input.Currency, s.cfg.Payment.DefaultCurrency) {
		return nil, domain.NewValidationError("currency", fmt.Sprintf("Currency must be %s", strings.ToUpper(s.cfg.Payment.DefaultCurrency)))
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Payment.Timeout)
	defer cancel()

	intent, err := s.gateway.CreateIntent(ctx, CreateIntentInput{
		Amount:   input.Amount,
		Currency: input.Currency,
		UserID:   userID,
	})
	if err != nil {
		log.Printf("❌ Create payment intent failed for %s: %v", userID, err)
		return nil, providerError(err)
	}
	return intent, nil
}

// Record re-confirms the payment with the processor, then appends the
// transaction and decrements the fee balance in one unit of work.
func (s *PaymentService) Record(ctx context.Context, userID string, input *RecordPaymentInput) (*domain.RecordedPayment, error) {
	input.FeeID = strings.TrimSpace(input.FeeID)
	input.Description = strings.TrimSpace(input.Description)
	input.PaymentIntentID = strings.TrimSpace(input.PaymentIntentID)

	// 1. Validate input
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkScale(input.Amount); err != nil {
		return nil, err
	}

	// 2. Re-confirm with the processor; client claims are not trusted
	intent, err := s.retrieveIntent(ctx, input.PaymentIntentID)
	if err != nil {
		s.observe(err)
		return nil, err
	}
	if !intent.Succeeded() {
		metrics.PaymentsRecorded.WithLabelValues(metrics.ResultNotConfirmed).Inc()
		log.Printf("⚠️ Payment %s not succeeded (status: %s)", intent.ID, intent.Status)
		return nil, domain.ErrPaymentNotSucceeded
	}
	if intent.Amount != input.Amount.Shift(2).Round(0).IntPart() {
		metrics.PaymentsRecorded.WithLabelValues(metrics.ResultNotConfirmed).Inc()
		log.Printf("⚠️ Payment %s amount mismatch: charged %d, recording %s", intent.ID, intent.Amount, input.Amount)
		return nil, ErrAmountMismatch
	}
	if !strings.EqualFold(intent.Currency, s.cfg.Payment.DefaultCurrency) {
		metrics.PaymentsRecorded.WithLabelValues(metrics.ResultNotConfirmed).Inc()
		log.Printf("⚠️ Payment %s currency mismatch: charged %s", intent.ID, intent.Currency)
		return nil, ErrCurrencyMismatch
	}
	if intent.UserID != userID {
		metrics.PaymentsRecorded.WithLabelValues(metrics.ResultNotConfirmed).Inc()
		log.Printf("⚠️ Payment %s opened for %q, recorded by %s", intent.ID, intent.UserID, userID)
		return nil, ErrForeignIntent
	}

	cardLast4 := intent.CardLast4
	if cardLast4 == "" {
		cardLast4 = domain.CardLast4Placeholder
	}

	txn := &models.Transaction{
		ID:          intent.ID,
		UserID:      userID,
		FeeID:       input.FeeID,
		Amount:      input.Amount,
		Status:      domain.TransactionStatusSuccess,
		Description: input.Description,
		CardLast4:   cardLast4,
	}

	// 3. Atomic write; runs to completion even if the caller goes away
	txCtx := context.WithoutCancel(ctx)
	err = s.uow.WithTx(txCtx, func(repos repositories.Repositories) error {
		return s.apply(txCtx, repos, txn)
	})
	if err != nil {
		s.observe(err)
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(metrics.ResultRecorded).Inc()
	metrics.AmountRecorded.Add(txn.Amount.InexactFloat64())
	log.Printf("✅ Payment recorded: %s user=%s fee=%s amount=%s", txn.ID, userID, txn.FeeID, txn.Amount.StringFixed(2))

	return &domain.RecordedPayment{
		ID:        txn.ID,
		Amount:    txn.Amount,
		Status:    txn.Status,
		Date:      txn.CreatedAt,
		FeeID:     txn.FeeID,
		CardLast4: txn.CardLast4,
	}, nil
}

// apply locks the balance row, appends txn and applies it to the balance.
// Any error rolls back both writes.
func (s *PaymentService) apply(ctx context.Context, repos repositories.Repositories, txn *models.Transaction) error {
	row, err := repos.Fees.GetUserFeeForUpdate(ctx, txn.UserID, txn.FeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrFeeNotAssigned
		}
		return err
	}

	if s.cfg.Payment.OverpaymentPolicy == config.OverpaymentReject && txn.Amount.GreaterThan(row.Balance) {
		return domain.ErrOverpayment
	}

	exists, err := repos.Transactions.Exists(ctx, txn.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicatePayment
	}

	if err := repos.Transactions.Create(ctx, txn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicatePayment
		}
		return err
	}

	n, err := repos.Fees.ApplyPayment(ctx, txn.UserID, txn.FeeID, txn.Amount)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrFeeNotAssigned
	}
	return nil
}

func (s *PaymentService) retrieveIntent(ctx context.Context, intentID string) (*domain.PaymentIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Payment.Timeout)
	defer cancel()

	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		log.Printf("❌ Payment verification failed for %s: %v", intentID, err)
		return nil, providerError(err)
	}
	return intent, nil
}

// ListForUser returns userID's transactions, newest first
func (s *PaymentService) ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	txns, err := s.txnRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}
	return txns, nil
}

func (s *PaymentService) observe(err error) {
	result := metrics.ResultError
	switch {
	case errors.Is(err, domain.ErrPaymentNotConfirmed):
		result = metrics.ResultNotConfirmed
	case errors.Is(err, domain.ErrDuplicatePayment):
		result = metrics.ResultDuplicate
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		result = metrics.ResultRejected
	}
	metrics.PaymentsRecorded.WithLabelValues(result).Inc()
}

// providerError keeps domain errors from the gateway and classifies the rest
// as provider failures, including timeouts.
func providerError(err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	return fmt.Errorf("%w: %v", errProviderUnavailable, err)
}

func checkScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return domain.NewValidationError("amount", "Amount cannot have more than 2 decimal places")
	}
	return nil
}
