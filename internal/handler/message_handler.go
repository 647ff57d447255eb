package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// MessageHandler wires the in-app messaging endpoints.
type MessageHandler struct {
	service service.MessageService
	logger  zerolog.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(service service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger.With().Str("component", "message_handler").Logger(),
	}
}

// Register wires message routes for any authenticated caller.
func (h *MessageHandler) Register(router fiber.Router) {
	router.Post("", h.send)
	router.Get("", h.list)
	router.Patch("/:id/read", h.markRead)
}

func (h *MessageHandler) send(c *fiber.Ctx) error {
	var payload dto.MessageSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	message, err := h.service.Send(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *MessageHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	messages, err := h.service.ListForUser(c.Context(), userIDFromContext(c), limit, offset)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "messages retrieved", messages)
}

func (h *MessageHandler) markRead(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid message id")
	}

	message, err := h.service.MarkRead(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "message marked read", message)
}
