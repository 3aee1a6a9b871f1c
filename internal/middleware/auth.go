package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/token"
	"github.com/academico-latam/academico-api/internal/utils"
)

// Locals keys populated by Authenticate for downstream handlers.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

// Authenticate validates the bearer token and re-checks the account against
// the user store on every request, so disabling an account takes effect
// immediately rather than at token expiry.
func Authenticate(tokens *token.Service, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				return utils.SendError(c, fiber.StatusUnauthorized, "token expired")
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		user, err := users.GetByID(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "could not verify account")
		}
		if !user.Active {
			return utils.SendError(c, fiber.StatusForbidden, "account disabled")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserRole, user.Role)

		return c.Next()
	}
}
