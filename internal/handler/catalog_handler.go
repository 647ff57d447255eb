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

// CatalogHandler wires branch, course and batch endpoints.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires the read-only catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/branches", h.listBranches)
	router.Get("/courses", h.listCourses)
	router.Get("/batches", h.listBatches)
	router.Get("/batches/:id", h.getBatch)
}

// RegisterAdmin wires the mutating catalog routes.
func (h *CatalogHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/branches", h.createBranch)
	router.Put("/branches/:id", h.updateBranch)
	router.Delete("/branches/:id", h.deleteBranch)
	router.Post("/courses", h.createCourse)
	router.Put("/courses/:id", h.updateCourse)
	router.Delete("/courses/:id", h.deleteCourse)
	router.Post("/batches", h.createBatch)
	router.Delete("/batches/:id", h.deleteBatch)
}

func (h *CatalogHandler) listBranches(c *fiber.Ctx) error {
	branches, err := h.service.ListBranches(c.Context())
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "branches retrieved", branches)
}

func (h *CatalogHandler) createBranch(c *fiber.Ctx) error {
	var payload dto.BranchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	branch, err := h.service.CreateBranch(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "branch created", branch)
}

func (h *CatalogHandler) updateBranch(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid branch id")
	}

	var payload dto.BranchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	branch, err := h.service.UpdateBranch(c.Context(), id, payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "branch updated", branch)
}

func (h *CatalogHandler) deleteBranch(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid branch id")
	}

	if err := h.service.DeleteBranch(c.Context(), id); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "branch deleted", nil)
}

func (h *CatalogHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.Context())
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.CreateCourse(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CatalogHandler) updateCourse(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var payload dto.CourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.UpdateCourse(c.Context(), id, payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CatalogHandler) deleteCourse(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	if err := h.service.DeleteCourse(c.Context(), id); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *CatalogHandler) listBatches(c *fiber.Ctx) error {
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
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}
	teacherID, err := parseQueryUint(c, "teacher_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid teacher id")
	}

	filter := repository.BatchFilter{
		BranchID:  branchID,
		CourseID:  courseID,
		TeacherID: teacherID,
		Status:    models.BatchStatus(strings.TrimSpace(c.Query("status"))),
		Search:    c.Query("search"),
		Sort:      c.Query("sort"),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := h.service.ListBatches(c.Context(), filter)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "batches retrieved", result)
}

func (h *CatalogHandler) getBatch(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	batch, err := h.service.GetBatch(c.Context(), id)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "batch retrieved", batch)
}

func (h *CatalogHandler) createBatch(c *fiber.Ctx) error {
	var payload dto.BatchCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	batch, err := h.service.CreateBatch(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "batch created", batch)
}

func (h *CatalogHandler) deleteBatch(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid batch id")
	}

	if err := h.service.DeleteBatch(c.Context(), id); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "batch deleted", nil)
}
