package integration_test

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/handler"
	"github.com/noah-isme/edudesk-api/internal/service"
)

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}

func newNotificationApp(t *testing.T, userID uint) *fiber.App {
	t.Helper()

	notifier := service.NewNotifierService(nil, zerolog.Nop())
	h := handler.NewNotificationHandler(notifier, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/notifications", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	h.Register(group)

	return app
}

func TestNotificationStreamAcceptsAuthenticatedUpgrade(t *testing.T) {
	app := newNotificationApp(t, 42)
	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/notifications/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	// The stream is quiet without broker traffic; the connection simply
	// stays open until the client hangs up.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	require.True(t, netErr.Timeout())
}

func TestNotificationStreamClosesAnonymousConnection(t *testing.T) {
	app := newNotificationApp(t, 0)
	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/notifications/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	require.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}

func TestNotificationStreamRequiresUpgrade(t *testing.T) {
	app := newNotificationApp(t, 42)

	req, err := http.NewRequest(http.MethodGet, "/api/v1/notifications/ws", nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
