package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/middleware"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryUint(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseParamUint(c *fiber.Ctx, key string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// handleError maps domain errors onto HTTP statuses so the handlers stay
// uniform. Unmapped errors are logged and surface as a plain 500.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrEnrollmentNotFound),
		errors.Is(err, service.ErrCompensationNotFound),
		errors.Is(err, service.ErrBranchNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrMessageForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateAttendance),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrPayrollAlreadyRun),
		errors.Is(err, service.ErrPaymentAlreadySettled),
		errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAttendanceValidation),
		errors.Is(err, service.ErrDateOutOfRange),
		errors.Is(err, service.ErrCompensationValidation),
		errors.Is(err, service.ErrBrandMismatch),
		errors.Is(err, service.ErrStudentValidation),
		errors.Is(err, service.ErrParentRoleRequired),
		errors.Is(err, service.ErrCatalogValidation),
		errors.Is(err, service.ErrInvalidBatchCode),
		errors.Is(err, service.ErrEnrollmentValidation),
		errors.Is(err, service.ErrBatchFull),
		errors.Is(err, service.ErrPaymentValidation),
		errors.Is(err, service.ErrEmployeeValidation),
		errors.Is(err, service.ErrMessageValidation):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrUploadStorageUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
