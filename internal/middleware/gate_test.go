package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/gate"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/session"
)

type stubResolver struct {
	result gate.SessionResult
	err    error
}

func (r stubResolver) Resolve(context.Context, string) (gate.SessionResult, error) {
	return r.result, r.err
}

func newGateApp(resolver SessionResolver, roles ...models.Role) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session_token", "token")
		return c.Next()
	})
	app.Get("/admin/dashboard", Protect(resolver, roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) (string, map[string]string) {
	t.Helper()
	defer resp.Body.Close()

	var payload struct {
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Message, payload.Data
}

func TestProtectWithoutSessionRedirectsToAuth(t *testing.T) {
	resolver := stubResolver{result: gate.SessionResult{State: gate.SessionStateReady}}
	app := newGateApp(resolver, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, data := decodeEnvelope(t, resp)
	require.Equal(t, "/auth", data["redirect_to"])
}

func TestProtectDeniedRedirectsToRoleHome(t *testing.T) {
	resolver := stubResolver{result: gate.SessionResult{
		State:   gate.SessionStateReady,
		Session: &gate.Session{UserID: 2, Role: models.RoleTeacher},
	}}
	app := newGateApp(resolver, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	message, data := decodeEnvelope(t, resp)
	require.NotEmpty(t, message)
	require.Equal(t, "/teacher/dashboard", data["redirect_to"])
}

func TestProtectAuthorizedRoleRenders(t *testing.T) {
	resolver := stubResolver{result: gate.SessionResult{
		State:   gate.SessionStateReady,
		Session: &gate.Session{UserID: 1, Role: models.RoleAdmin},
	}}
	app := newGateApp(resolver, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectEmptyRolesAdmitsAnyAuthenticatedSession(t *testing.T) {
	resolver := stubResolver{result: gate.SessionResult{
		State:   gate.SessionStateReady,
		Session: &gate.Session{UserID: 4, Role: models.RoleStudent},
	}}
	app := newGateApp(resolver)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectResolutionTimeoutIsRetryable(t *testing.T) {
	resolver := stubResolver{
		result: gate.SessionResult{State: gate.SessionStateResolving},
		err:    session.ErrResolutionTimeout,
	}
	app := newGateApp(resolver, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestProtectResolvingNeverFlashesContent(t *testing.T) {
	resolver := stubResolver{result: gate.SessionResult{State: gate.SessionStateResolving}}
	app := newGateApp(resolver, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
