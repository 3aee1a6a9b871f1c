package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

// StudentHandler wires the student's self-scoped endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/profile", h.profile)
	router.Get("/grades", h.grades)
	router.Get("/attendance", h.attendance)
	router.Get("/agenda", h.agenda)
	router.Get("/messages", h.messages)
}

func (h *StudentHandler) profile(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *StudentHandler) grades(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	grades, err := h.service.Grades(c.UserContext(), userIDFromContext(c), repository.GradeFilter{
		CourseSubjectID:  c.Query("course_subject_id"),
		EvaluationPlanID: c.Query("evaluation_plan_id"),
		Limit:            limit,
	})
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *StudentHandler) attendance(c *fiber.Ctx) error {
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

	records, err := h.service.Attendance(c.UserContext(), userIDFromContext(c), repository.AttendanceFilter{
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

func (h *StudentHandler) agenda(c *fiber.Ctx) error {
	until, err := parseQueryTime(c, "until")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until")
	}

	agenda, err := h.service.Agenda(c.UserContext(), userIDFromContext(c), until)
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "agenda retrieved", agenda)
}

func (h *StudentHandler) messages(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	messages, err := h.service.Messages(c.UserContext(), userIDFromContext(c), c.Query("type"), limit)
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "messages retrieved", messages)
}
