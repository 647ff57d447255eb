package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// EnrollmentHandler wires the enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register wires enrollment read routes.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
	router.Get("/student/:studentID", h.listByStudent)
	router.Get("/batch/:batchID", h.listByBatch)
}

// RegisterAdmin wires the mutating enrollment routes.
func (h *EnrollmentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.enroll)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	enrollment, err := h.service.Enroll(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", enrollment)
}

func (h *EnrollmentHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	enrollment, err := h.service.UpdateStatus(c.Context(), id, models.EnrollmentStatus(strings.TrimSpace(payload.Status)))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollment updated", enrollment)
}

func (h *EnrollmentHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}

	enrollment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollment retrieved", enrollment)
}

func (h *EnrollmentHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseParamUint(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	enrollments, err := h.service.ListByStudent(c.Context(), studentID)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) listByBatch(c *fiber.Ctx) error {
	batchID, err := parseParamUint(c, "batchID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	enrollments, err := h.service.ListByBatch(c.Context(), batchID)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}
