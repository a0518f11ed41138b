package handlers

import (
	"errors"
	"log"

	"limpay/internal/core/domain"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the API error taxonomy.
// Store failures are logged and reported with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.ValidationFailed(c, verr.Error(), verr.Fields)
	}

	message := err.Error()
	var derr *domain.Error
	if !errors.As(err, &derr) {
		message = ""
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return response.Unauthorized(c, or(message, "Unauthorized"))
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, or(message, "Forbidden"))
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, or(message, "Not found"))
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, or(message, "Already exists"))
	case errors.Is(err, domain.ErrPaymentNotConfirmed), errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, or(message, "Invalid request"))
	case errors.Is(err, domain.ErrPaymentProvider):
		log.Printf("❌ Payment provider error on %s %s: %v", c.Method(), c.Path(), err)
		return response.BadGateway(c, "Payment provider unavailable")
	default:
		log.Printf("❌ Internal error on %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Internal server error")
	}
}

func or(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func invalidBody(c *fiber.Ctx) error {
	return response.BadRequest(c, "Invalid request body")
}
