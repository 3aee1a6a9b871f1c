package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

// AdminHandler wires account provisioning and audit reporting endpoints.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin routes to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/users", h.createUser)
	router.Get("/users", h.listUsers)
	router.Get("/users/:id", h.getUser)
	router.Patch("/users/:id", h.updateUser)
	router.Get("/audit", h.listAudit)
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.CreateUser(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, "email already registered")
		case isValidationError(err):
			return sendValidationError(c, err)
		case strings.Contains(err.Error(), "unknown role"):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create user")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	request := dto.UserListRequest{
		Search:   c.Query("search"),
		Role:     c.Query("role"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active := raw == "true"
		request.Active = &active
	}

	response, err := h.service.ListUsers(c.UserContext(), request)
	if err != nil {
		if strings.Contains(err.Error(), "unknown role") {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", response)
}

func (h *AdminHandler) getUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AdminHandler) updateUser(c *fiber.Ctx) error {
	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminHandler) listAudit(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	from, err := parseQueryTime(c, "from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from")
	}
	until, err := parseQueryTime(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until")
	}

	response, err := h.service.ListAuditRecords(c.UserContext(), dto.AuditListRequest{
		UserID:   c.Query("user_id"),
		Action:   c.Query("action"),
		From:     from,
		Until:    until,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit records")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit records")
	}

	return utils.SendSuccess(c, "audit records retrieved", response)
}
