package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/middleware"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/scope"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

func userIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.LocalUserID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func userRoleFromContext(c *fiber.Ctx) models.Role {
	if v := c.Locals(middleware.LocalUserRole); v != nil {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		UserID:    userIDFromContext(c),
		Role:      userRoleFromContext(c),
		IPAddress: c.IP(),
	}
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func parseQueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Accept bare dates as well.
		parsed, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendValidationError flattens validator field errors into the details block.
func sendValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			fields[fieldError.Field()] = fieldError.Tag()
		}
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "validation failed", fields)
	}
	return utils.SendError(c, fiber.StatusBadRequest, err.Error())
}

// sendScopeError maps scope failures. Violations are an opaque 403 with no
// distinction between out-of-scope and nonexistent targets; a missing profile
// is a data-integrity problem, logged loudly but surfaced as a plain 404.
func sendScopeError(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, scope.ErrScopeViolation), errors.Is(err, scope.ErrStudentOutsideScope):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, scope.ErrProfileNotFound):
		logger.Error().Err(err).Msg("authenticated user has no profile for its role")
		return utils.SendError(c, fiber.StatusNotFound, "profile not found")
	default:
		logger.Error().Err(err).Msg("request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal error")
	}
}
