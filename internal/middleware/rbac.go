package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed
// roles. Used for per-route refinement under an already protected group; the
// denial mirrors the gate's redirect-to-role-home shape.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		if role.Valid() {
			allowed[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := models.ParseRole(normalizeRoleValue(c.Locals("user_role")))
		if _, ok := allowed[role]; !ok {
			redirect := models.Role("").HomePath()
			if role.Valid() {
				redirect = role.HomePath()
			}
			return utils.SendErrorWithData(c, fiber.StatusForbidden, "insufficient permissions",
				fiber.Map{"redirect_to": redirect})
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
