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

// DirectorHandler wires the academic-structure management endpoints.
type DirectorHandler struct {
	service   service.DirectorService
	dashboard service.DirectorDashboardService
	logger    zerolog.Logger
}

// NewDirectorHandler constructs the handler.
func NewDirectorHandler(service service.DirectorService, dashboard service.DirectorDashboardService, logger zerolog.Logger) *DirectorHandler {
	return &DirectorHandler{
		service:   service,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "director_handler").Logger(),
	}
}

// Register attaches the director routes to the router group.
func (h *DirectorHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Post("/courses", h.createCourse)
	router.Get("/courses", h.listCourses)
	router.Post("/subjects", h.createSubject)
	router.Get("/subjects", h.listSubjects)
	router.Post("/assignments", h.assignTeacher)
	router.Post("/enrollments", h.assignStudent)
	router.Post("/academic-years", h.createYear)
	router.Get("/academic-years", h.listYears)
	router.Post("/events", h.createEvent)
	router.Post("/communications", h.sendCommunication)
	router.Get("/grades", h.supervisionGrades)
	router.Get("/attendance", h.supervisionAttendance)
}

func (h *DirectorHandler) getDashboard(c *fiber.Ctx) error {
	response, err := h.dashboard.GetDashboard(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *DirectorHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.CreateCourse(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLevelNotFound), errors.Is(err, service.ErrYearNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *DirectorHandler) listCourses(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	courses, total, err := h.service.ListCourses(c.UserContext(), repository.CourseFilter{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", fiber.Map{
		"items":      courses,
		"pagination": dto.NewPaginationMeta(page, pageSize, total),
	})
}

func (h *DirectorHandler) createSubject(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.CreateSubject(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectTaken):
			return utils.SendError(c, fiber.StatusConflict, "subject already exists")
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create subject")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create subject")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *DirectorHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}

	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *DirectorHandler) assignTeacher(c *fiber.Ctx) error {
	var payload dto.AssignTeacherRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.AssignTeacher(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound),
			errors.Is(err, service.ErrSubjectNotFound),
			errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to assign teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign teacher")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher assigned", assignment)
}

func (h *DirectorHandler) assignStudent(c *fiber.Ctx) error {
	var payload dto.AssignStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	err := h.service.AssignStudent(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to assign student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign student")
		}
	}

	return utils.SendSuccess(c, "student assigned", fiber.Map{
		"student_id": payload.StudentID,
		"course_id":  payload.CourseID,
	})
}

func (h *DirectorHandler) createYear(c *fiber.Ctx) error {
	var payload dto.AcademicYearCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	year, err := h.service.CreateAcademicYear(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create academic year")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create academic year")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "academic year created", year)
}

func (h *DirectorHandler) listYears(c *fiber.Ctx) error {
	years, err := h.service.ListAcademicYears(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list academic years")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list academic years")
	}

	return utils.SendSuccess(c, "academic years retrieved", years)
}

func (h *DirectorHandler) createEvent(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	event, err := h.service.CreateEvent(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return sendValidationError(c, err)
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create event")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create event")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *DirectorHandler) sendCommunication(c *fiber.Ctx) error {
	var payload dto.CommunicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	communication, err := h.service.SendCommunication(c.UserContext(), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to send communication")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to send communication")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "communication sent", communication)
}

func (h *DirectorHandler) supervisionGrades(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	grades, err := h.service.SupervisionGrades(c.UserContext(), dto.SupervisionGradeRequest{
		CourseID:  c.Query("course_id"),
		SubjectID: c.Query("subject_id"),
		Limit:     limit,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list grades")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list grades")
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *DirectorHandler) supervisionAttendance(c *fiber.Ctx) error {
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

	records, err := h.service.SupervisionAttendance(c.UserContext(), repository.AttendanceFilter{
		StudentProfileID: c.Query("student_id"),
		CourseSubjectID:  c.Query("course_subject_id"),
		Status:           c.Query("status"),
		From:             from,
		Until:            until,
		Limit:            limit,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list attendance")
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}
