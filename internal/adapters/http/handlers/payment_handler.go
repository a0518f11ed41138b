package handlers

import (
	"limpay/internal/adapters/http/middleware"
	"limpay/internal/core/services"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles card payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIntent opens a payment with the card processor
// @Summary Create payment intent
// @Description Returns the client secret the browser needs to confirm the card payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateIntentRequest true "Amount and optional currency"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req services.CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	intent, err := h.paymentService.CreateIntent(c.UserContext(), middleware.CurrentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"clientSecret": intent.ClientSecret})
}

// Record records a payment the processor has confirmed
// @Summary Record payment
// @Description Re-confirms the payment intent, appends the transaction and reduces the fee balance
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordPaymentInput true "Confirmed payment"
// @Success 200 {object} domain.RecordedPayment
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/record [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var req services.RecordPaymentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	txn, err := h.paymentService.Record(c.UserContext(), middleware.CurrentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Payment recorded successfully", fiber.Map{"transaction": txn})
}

// Transactions lists the caller's payments, newest first
// @Summary Transaction history
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Failure 401 {object} response.Response
// @Router /payments/transactions [get]
func (h *PaymentHandler) Transactions(c *fiber.Ctx) error {
	txns, err := h.paymentService.ListForUser(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"transactions": txns})
}
