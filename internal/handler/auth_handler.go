package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/service"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// AuthHandler wires the authentication endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic wires the routes that require no session.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
}

// RegisterProtected wires the routes that run behind the access gate.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Get("/me", h.me)
}

// RegisterAdmin wires account management, admin only.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/users", h.register)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	tokens, err := h.service.Refresh(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "token refreshed", tokens)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	token, _ := c.Locals("session_token").(string)
	if err := h.service.Logout(c.Context(), token); err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	profile, err := h.service.Me(c.Context(), userIDFromContext(c))
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return handleError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", profile)
}
