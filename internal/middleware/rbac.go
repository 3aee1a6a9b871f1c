package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/utils"
)

// RequireRole ensures the authenticated user carries one of the allowed
// roles. Requests with no principal at all get 401; an authenticated user
// with the wrong role gets 403 together with the role set the route expects.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	required := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
		required = append(required, string(role))
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(models.Role)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if _, ok := allowed[role]; !ok {
			return utils.SendErrorWithDetails(c, fiber.StatusForbidden, "insufficient permissions", fiber.Map{
				"current_role":   string(role),
				"required_roles": required,
			})
		}

		return c.Next()
	}
}
