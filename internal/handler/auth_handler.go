package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

// AuthHandler wires the session endpoints.
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

// Register attaches the public auth routes. Protected registers the routes
// that require an authenticated principal.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// Protected attaches the authenticated auth routes.
func (h *AuthHandler) Protected(router fiber.Router) {
	router.Get("/me", h.me)
	router.Get("/verify-token", h.verifyToken)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, service.ErrUserDisabled):
			return utils.SendError(c, fiber.StatusForbidden, "account disabled")
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return utils.SendSuccess(c, "session established", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load account")
	}

	return utils.SendSuccess(c, "account retrieved", user)
}

// verifyToken reports the principal attached by the authentication gate.
// Reaching this handler at all means the token passed verification.
func (h *AuthHandler) verifyToken(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "token valid", fiber.Map{
		"user_id": userIDFromContext(c),
		"role":    userRoleFromContext(c),
	})
}
