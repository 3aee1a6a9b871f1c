package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

// GuardianHandler wires the guardian's read-only endpoints.
type GuardianHandler struct {
	service service.GuardianService
	logger  zerolog.Logger
}

// NewGuardianHandler constructs the handler.
func NewGuardianHandler(service service.GuardianService, logger zerolog.Logger) *GuardianHandler {
	return &GuardianHandler{
		service: service,
		logger:  logger.With().Str("component", "guardian_handler").Logger(),
	}
}

// Register attaches the guardian routes to the router group.
func (h *GuardianHandler) Register(router fiber.Router) {
	router.Get("/children", h.children)
	router.Get("/children/:id/grades", h.childGrades)
	router.Get("/children/:id/attendance", h.childAttendance)
	router.Get("/communications", h.communications)
}

func (h *GuardianHandler) children(c *fiber.Ctx) error {
	children, err := h.service.Children(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "children retrieved", children)
}

func (h *GuardianHandler) childGrades(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	grades, err := h.service.ChildGrades(c.UserContext(), userIDFromContext(c), c.Params("id"), repository.GradeFilter{
		CourseSubjectID: c.Query("course_subject_id"),
		Limit:           limit,
	})
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *GuardianHandler) childAttendance(c *fiber.Ctx) error {
	from, err := parseQueryTime(c, "from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from")
	}
	until, err := parseQueryTime(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	records, err := h.service.ChildAttendance(c.UserContext(), userIDFromContext(c), c.Params("id"), repository.AttendanceFilter{
		Status: c.Query("status"),
		From:   from,
		Until:  until,
		Limit:  limit,
	})
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}

func (h *GuardianHandler) communications(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	items, err := h.service.Communications(c.UserContext(), userIDFromContext(c), limit)
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "communications retrieved", items)
}
