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

// StudentHandler wires the student registry endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes. Write operations sit behind admin role
// refinement in the router.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/key/:studentID", h.getByKey)
}

// RegisterAdmin wires the mutating student routes.
func (h *StudentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Post("/:id/photo", h.uploadPhoto)
	router.Delete("/:id", h.delete)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
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

	branchID, err := parseQueryUint(c, "branch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid branch id")
	}
	batchID, err := parseQueryUint(c, "batch_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	filter := repository.StudentFilter{
		BranchID: branchID,
		BatchID:  batchID,
		Status:   models.StudentStatus(strings.TrimSpace(c.Query("status"))),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.service.List(c.Context(), filter)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "students retrieved", result)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	student, err := h.service.Get(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) getByKey(c *fiber.Ctx) error {
	student, err := h.service.GetByStudentID(c.Context(), strings.TrimSpace(c.Params("studentID")))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) uploadPhoto(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is required")
	}

	student, err := h.service.UploadPhoto(c.Context(), id, file)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "photo uploaded", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
