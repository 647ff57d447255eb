package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/service"
)

// NotificationHandler wires the realtime notification stream.
type NotificationHandler struct {
	notifier service.NotifierService
	logger   zerolog.Logger
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(notifier service.NotifierService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		logger:   logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register wires the websocket upgrade. Runs behind the access gate, so the
// user id local is already populated by the time the upgrade happens.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *NotificationHandler) handleConnection(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(uint)
	if userID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user id missing"))
		_ = conn.Close()
		return
	}

	h.notifier.ServeConnection(conn, userID)
}
