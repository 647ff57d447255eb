package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/middleware"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// CompensationHandler wires the compensation workflow endpoints.
type CompensationHandler struct {
	service service.CompensationService
	logger  zerolog.Logger
}

// NewCompensationHandler constructs the handler.
func NewCompensationHandler(service service.CompensationService, logger zerolog.Logger) *CompensationHandler {
	return &CompensationHandler{
		service: service,
		logger:  logger.With().Str("component", "compensation_handler").Logger(),
	}
}

// Register wires the routes available to any authenticated caller. Students
// may follow their requests but never open one themselves, so creation is
// refined to staff and parents.
func (h *CompensationHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher, models.RoleParent), h.request)
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin wires the approval workflow, admin only.
func (h *CompensationHandler) RegisterAdmin(router fiber.Router) {
	router.Patch("/:id/status", h.transition)
}

func (h *CompensationHandler) request(c *fiber.Ctx) error {
	var payload dto.CompensationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	request, err := h.service.Request(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "compensation requested", request)
}

func (h *CompensationHandler) transition(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.CompensationTransitionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	request, err := h.service.Transition(c.Context(), id, payload.Status)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "compensation updated", request)
}

func (h *CompensationHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	filter := repository.CompensationFilter{
		StudentID: studentID,
		Status:    models.CompensationStatus(strings.TrimSpace(c.Query("status"))),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := h.service.List(c.Context(), filter)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "compensation requests retrieved", result)
}

func (h *CompensationHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "compensation request retrieved", request)
}
