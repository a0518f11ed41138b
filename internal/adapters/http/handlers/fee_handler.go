package handlers

import (
	"limpay/internal/adapters/http/middleware"
	"limpay/internal/core/services"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeeHandler handles fee ledger endpoints
type FeeHandler struct {
	feeService *services.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeService *services.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// Outstanding lists the caller's fees that still carry a balance
// @Summary Outstanding fees
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.OutstandingFee
// @Failure 401 {object} response.Response
// @Router /fees/outstanding [get]
func (h *FeeHandler) Outstanding(c *fiber.Ctx) error {
	fees, err := h.feeService.OutstandingFeesFor(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"fees": fees})
}

// Catalog lists every fee definition
// @Summary Fee catalog
// @Tags Fees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Fee
// @Router /fees [get]
func (h *FeeHandler) Catalog(c *fiber.Ctx) error {
	fees, err := h.feeService.Catalog(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"fees": fees})
}
