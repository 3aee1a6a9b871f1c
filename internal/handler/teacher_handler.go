package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/service"
	"github.com/academico-latam/academico-api/internal/utils"
)

// TeacherHandler wires the teacher's scoped endpoints.
type TeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(service service.TeacherService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches the teacher routes to the router group.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("/assignments", h.workload)
	router.Get("/assignments/:id/students", h.courseStudents)
	router.Post("/plans", h.createPlan)
	router.Get("/plans", h.listPlans)
	router.Post("/grades", h.recordGrade)
	router.Post("/attendance", h.recordAttendance)
	router.Get("/attendance", h.listAttendance)
}

func (h *TeacherHandler) workload(c *fiber.Ctx) error {
	items, err := h.service.Workload(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "assignments retrieved", items)
}

func (h *TeacherHandler) courseStudents(c *fiber.Ctx) error {
	students, err := h.service.CourseStudents(c.UserContext(), userIDFromContext(c), c.Params("id"))
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *TeacherHandler) createPlan(c *fiber.Ctx) error {
	var payload dto.EvaluationPlanCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	plan, err := h.service.CreatePlan(c.UserContext(), userIDFromContext(c), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation plan created", plan)
}

func (h *TeacherHandler) listPlans(c *fiber.Ctx) error {
	plans, err := h.service.ListPlans(c.UserContext(), userIDFromContext(c), repository.EvaluationPlanFilter{
		CourseSubjectID: c.Query("course_subject_id"),
	})
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "evaluation plans retrieved", plans)
}

func (h *TeacherHandler) recordGrade(c *fiber.Ctx) error {
	var payload dto.GradeRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	grade, err := h.service.RecordGrade(c.UserContext(), userIDFromContext(c), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "evaluation plan not found")
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			return sendScopeError(c, requestLogger(h.logger, c), err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade recorded", grade)
}

func (h *TeacherHandler) recordAttendance(c *fiber.Ctx) error {
	var payload dto.AttendanceBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	records, err := h.service.RecordAttendance(c.UserContext(), userIDFromContext(c), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance recorded", records)
}

func (h *TeacherHandler) listAttendance(c *fiber.Ctx) error {
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

	records, err := h.service.ListAttendance(c.UserContext(), userIDFromContext(c), repository.AttendanceFilter{
		CourseSubjectID: c.Query("course_subject_id"),
		Status:          c.Query("status"),
		From:            from,
		Until:           until,
		Limit:           limit,
	})
	if err != nil {
		return sendScopeError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}
