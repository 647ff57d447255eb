package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// PaymentHandler wires the tuition invoice endpoints.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register wires payment read routes.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin wires the mutating payment routes.
func (h *PaymentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id/settle", h.settle)
	router.Post("/:id/receipt", h.attachReceipt)
}

func (h *PaymentHandler) create(c *fiber.Ctx) error {
	var payload dto.PaymentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payment, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "invoice raised", payment)
}

func (h *PaymentHandler) settle(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payment id")
	}

	var payload dto.PaymentSettleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payment, err := h.service.Settle(c.Context(), id, payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "invoice settled", payment)
}

func (h *PaymentHandler) attachReceipt(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payment id")
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "receipt file is required")
	}

	payment, err := h.service.AttachReceipt(c.Context(), id, file)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "receipt attached", payment)
}

func (h *PaymentHandler) list(c *fiber.Ctx) error {
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
	branchID, err := parseQueryUint(c, "branch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid branch id")
	}

	filter := repository.PaymentFilter{
		StudentID: studentID,
		BranchID:  branchID,
		Status:    models.PaymentStatus(strings.TrimSpace(c.Query("status"))),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := h.service.List(c.Context(), filter)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "payments retrieved", result)
}

func (h *PaymentHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payment id")
	}

	payment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "payment retrieved", payment)
}
