package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// DashboardHandler wires the per-role landing page aggregates.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterAdmin wires the admin dashboard.
func (h *DashboardHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/dashboard", h.admin)
}

// RegisterParent wires the parent dashboard.
func (h *DashboardHandler) RegisterParent(router fiber.Router) {
	router.Get("/dashboard", h.parent)
}

func (h *DashboardHandler) admin(c *fiber.Ctx) error {
	dashboard, err := h.service.Admin(c.Context())
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) parent(c *fiber.Ctx) error {
	dashboard, err := h.service.Parent(c.Context(), userIDFromContext(c))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
