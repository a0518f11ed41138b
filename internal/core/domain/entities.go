package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the system
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// TransactionStatusSuccess is the only status the payment recorder writes
const TransactionStatusSuccess = "Success"

// DefaultFaculty is stored when a student gives no faculty
const DefaultFaculty = "N/A"

// Payment intent statuses reported by the card processor
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusPending   = "processing"
)

// CardLast4Placeholder is recorded when the processor reports no card
const CardLast4Placeholder = "xxxx"

// PaymentIntent is the processor's view of a card payment
type PaymentIntent struct {
	ID           string
	Status       string
	ClientSecret string
	Amount       int64 // minor units
	Currency     string
	CardLast4    string
	UserID       string // owner recorded in the intent metadata
}

// Succeeded reports whether the processor has confirmed the charge
func (p *PaymentIntent) Succeeded() bool {
	return p != nil && p.Status == PaymentStatusSucceeded
}

// RecordedPayment is returned to the caller after a payment is recorded
type RecordedPayment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Date      time.Time       `json:"date"`
	FeeID     string          `json:"fee_id"`
	CardLast4 string          `json:"card_last4"`
}
