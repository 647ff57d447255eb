package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// SeedHandler exposes provisioning endpoints for bootstrapping a fresh
// installation. Token gated; disabled outside development by default.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/admin", h.admin)
	router.Post("/catalog", h.catalog)
}

type seedAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type seedCatalogRequest struct {
	Branches []models.Branch `json:"branches"`
	Courses  []models.Course `json:"courses"`
}

func (h *SeedHandler) admin(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	var payload seedAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	admin, err := h.service.SeedAdmin(c.Context(), token, payload.Username, payload.Password)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "admin seeded", fiber.Map{"user_id": admin.ID, "username": admin.Username})
}

func (h *SeedHandler) catalog(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	var payload seedCatalogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	affected, err := h.service.SeedCatalog(c.Context(), token, payload.Branches, payload.Courses)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "catalog seeded", fiber.Map{"affected": affected})
}
