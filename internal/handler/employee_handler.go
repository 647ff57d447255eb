package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// EmployeeHandler wires the staff and payroll endpoints, all admin only.
type EmployeeHandler struct {
	service service.EmployeeService
	logger  zerolog.Logger
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(service service.EmployeeService, logger zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.With().Str("component", "employee_handler").Logger(),
	}
}

// Register wires the employee routes.
func (h *EmployeeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
	router.Post("/:id/payroll", h.runPayroll)
	router.Get("/payroll/:period", h.listPayroll)
	router.Patch("/payroll/entry/:entryID/paid", h.markPaid)
}

func (h *EmployeeHandler) create(c *fiber.Ctx) error {
	var payload dto.EmployeeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	employee, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "employee registered", employee)
}

func (h *EmployeeHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	employee, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "employee retrieved", employee)
}

func (h *EmployeeHandler) list(c *fiber.Ctx) error {
	branchID, err := parseQueryUint(c, "branch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid branch id")
	}

	employees, err := h.service.List(c.Context(), branchID)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "employees retrieved", employees)
}

func (h *EmployeeHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "employee deleted", nil)
}

func (h *EmployeeHandler) runPayroll(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	var payload dto.PayrollRunRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.RunPayroll(c.Context(), id, payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payroll entry created", entry)
}

func (h *EmployeeHandler) listPayroll(c *fiber.Ctx) error {
	period := strings.TrimSpace(c.Params("period"))
	if period == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "period is required")
	}

	entries, err := h.service.ListPayroll(c.Context(), period)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "payroll retrieved", entries)
}

func (h *EmployeeHandler) markPaid(c *fiber.Ctx) error {
	entryID, err := parseParamUint(c, "entryID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	entry, err := h.service.MarkPayrollPaid(c.Context(), entryID)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "payroll entry paid", entry)
}
