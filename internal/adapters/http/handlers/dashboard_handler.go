package handlers

import (
	"limpay/internal/core/services"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns fee collection figures
// @Summary Admin Dashboard
// @Description Students, amounts collected and outstanding per fee, recent payments (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.AdminDashboardData
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"dashboard": data})
}
