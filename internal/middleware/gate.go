package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/edudesk-api/internal/gate"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/observability"
	"github.com/noah-isme/edudesk-api/internal/session"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// SessionResolver looks up the session bound to a token. Satisfied by
// session.Store.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (gate.SessionResult, error)
}

// Protect runs the access gate for every request on the route it guards.
// The allowed role set is fixed at registration time; an empty set admits any
// authenticated role. Decisions map onto HTTP as: loading/timeout 503 with a
// Retry-After hint, unauthenticated 401 redirecting to the auth route, denied
// 403 redirecting to the caller's role home, authorized passes through.
func Protect(resolver SessionResolver, roles ...models.Role) fiber.Handler {
	allowed := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		if role.Valid() {
			allowed = append(allowed, role)
		}
	}

	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("session_token").(string)

		result, err := resolver.Resolve(c.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrResolutionTimeout) {
				observability.GateDecisions().WithLabelValues(string(gate.OutcomeLoading)).Inc()
				c.Set("Retry-After", "1")
				return utils.SendError(c, fiber.StatusServiceUnavailable, "session resolution timed out, please retry")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		decision := gate.Decide(result, allowed)
		observability.GateDecisions().WithLabelValues(string(decision.Outcome)).Inc()

		switch decision.Outcome {
		case gate.OutcomeLoading:
			c.Set("Retry-After", "1")
			return utils.SendError(c, fiber.StatusServiceUnavailable, "session resolution in progress")
		case gate.OutcomeRedirectAuth:
			return utils.SendErrorWithData(c, fiber.StatusUnauthorized, "authentication required",
				fiber.Map{"redirect_to": decision.RedirectTo})
		case gate.OutcomeRedirectDenied:
			return utils.SendErrorWithData(c, fiber.StatusForbidden, decision.Message,
				fiber.Map{"redirect_to": decision.RedirectTo})
		}

		c.Locals("session", result.Session)
		return c.Next()
	}
}

// SessionFromContext returns the session attached by Protect, or nil.
func SessionFromContext(c *fiber.Ctx) *gate.Session {
	if value := c.Locals("session"); value != nil {
		if current, ok := value.(*gate.Session); ok {
			return current
		}
	}
	return nil
}
