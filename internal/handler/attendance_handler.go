package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// AttendanceHandler wires the attendance endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register wires attendance read routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/summary/:enrollmentID", h.summary)
}

// RegisterTeacher wires the recording route, teacher and admin only.
func (h *AttendanceHandler) RegisterTeacher(router fiber.Router) {
	router.Post("", h.record)
}

func (h *AttendanceHandler) record(c *fiber.Ctx) error {
	var payload dto.AttendanceRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Record(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance recorded", record)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	enrollmentID, err := parseQueryUint(c, "enrollment_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}
	batchID, err := parseQueryUint(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	filter := repository.AttendanceFilter{
		EnrollmentID: enrollmentID,
		BatchID:      batchID,
		Status:       models.AttendanceStatus(strings.TrimSpace(c.Query("status"))),
		DateFrom:     from,
		DateTo:       to,
		Page:         page,
		PageSize:     pageSize,
	}

	records, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "attendance retrieved", fiber.Map{
		"items": records,
		"total": total,
	})
}

func (h *AttendanceHandler) summary(c *fiber.Ctx) error {
	enrollmentID, err := parseParamUint(c, "enrollmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.Summarize(c.Context(), enrollmentID, from, to)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "attendance summary computed", summary)
}

func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid from date")
		}
		from = &parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid to date")
		}
		to = &parsed
	}

	return from, to, nil
}
