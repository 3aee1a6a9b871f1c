package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
)

var (
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")

	// ErrLevelNotFound indicates the referenced level does not exist.
	ErrLevelNotFound = errors.New("level not found")

	// ErrYearNotFound indicates the referenced academic year does not exist.
	ErrYearNotFound = errors.New("academic year not found")

	// ErrSubjectNotFound indicates the referenced subject does not exist.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrSubjectTaken indicates a subject with the same name already exists.
	ErrSubjectTaken = errors.New("subject name already registered")

	// ErrTeacherNotFound indicates the referenced teacher profile is missing.
	ErrTeacherNotFound = errors.New("teacher profile not found")

	// ErrStudentNotFound indicates the referenced student profile is missing.
	ErrStudentNotFound = errors.New("student profile not found")
)

// DirectorService manages the academic structure: courses, subjects, teaching
// assignments, enrollment, academic years, events and communications. Every
// mutation runs inside one transaction together with its audit record.
type DirectorService interface {
	CreateCourse(ctx context.Context, payload dto.CourseCreateRequest, actor Actor) (dto.CourseResponse, error)
	ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, int64, error)
	CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest, actor Actor) (models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	AssignTeacher(ctx context.Context, payload dto.AssignTeacherRequest, actor Actor) (dto.AssignmentResponse, error)
	AssignStudent(ctx context.Context, payload dto.AssignStudentRequest, actor Actor) error
	CreateAcademicYear(ctx context.Context, payload dto.AcademicYearCreateRequest, actor Actor) (models.AcademicYear, error)
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	CreateEvent(ctx context.Context, payload dto.EventCreateRequest, actor Actor) (models.Event, error)
	SendCommunication(ctx context.Context, payload dto.CommunicationCreateRequest, actor Actor) (models.Communication, error)
	SupervisionGrades(ctx context.Context, request dto.SupervisionGradeRequest) ([]dto.GradeResponse, error)
	SupervisionAttendance(ctx context.Context, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error)
}

type directorService struct {
	courses     repository.CourseRepository
	subjects    repository.SubjectRepository
	years       repository.AcademicYearRepository
	assignments repository.CourseSubjectRepository
	profiles    repository.ProfileRepository
	events      repository.EventRepository
	messages    repository.CommunicationRepository
	grades      repository.GradeRepository
	attendance  repository.AttendanceRepository
	tx          repository.TxManager
	audit       AuditRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
}

// DirectorDeps bundles the stores the director service operates on.
type DirectorDeps struct {
	Courses     repository.CourseRepository
	Subjects    repository.SubjectRepository
	Years       repository.AcademicYearRepository
	Assignments repository.CourseSubjectRepository
	Profiles    repository.ProfileRepository
	Events      repository.EventRepository
	Messages    repository.CommunicationRepository
	Grades      repository.GradeRepository
	Attendance  repository.AttendanceRepository
	Tx          repository.TxManager
	Audit       AuditRecorder
}

// NewDirectorService constructs the director service.
func NewDirectorService(deps DirectorDeps, validate *validator.Validate, logger zerolog.Logger) DirectorService {
	return &directorService{
		courses:     deps.Courses,
		subjects:    deps.Subjects,
		years:       deps.Years,
		assignments: deps.Assignments,
		profiles:    deps.Profiles,
		events:      deps.Events,
		messages:    deps.Messages,
		grades:      deps.Grades,
		attendance:  deps.Attendance,
		tx:          deps.Tx,
		audit:       deps.Audit,
		validator:   validate,
		logger:      logger.With().Str("component", "director_service").Logger(),
	}
}

func (s *directorService) CreateCourse(ctx context.Context, payload dto.CourseCreateRequest, actor Actor) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Name:           payload.Name,
		LevelID:        payload.LevelID,
		AcademicYearID: payload.AcademicYearID,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		level, err := s.courses.GetLevelByID(ctx, payload.LevelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLevelNotFound
			}
			return err
		}

		year, err := s.years.GetByID(ctx, payload.AcademicYearID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrYearNotFound
			}
			return err
		}

		if err := s.courses.Create(ctx, &course); err != nil {
			return err
		}
		course.Level = level
		course.AcademicYear = year

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreateCourse,
			Details:   fmt.Sprintf("curso creado: %s (%s, %s)", course.Name, level.Name, year.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"course_id": course.ID},
		})
	})
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *directorService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.NewCourseResponse(course))
	}

	return items, total, nil
}

func (s *directorService) CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest, actor Actor) (models.Subject, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Subject{}, err
	}

	subject := models.Subject{Name: payload.Name}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.subjects.Create(ctx, &subject); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSubjectTaken
			}
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreateSubject,
			Details:   fmt.Sprintf("materia creada: %s", subject.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"subject_id": subject.ID},
		})
	})
	if err != nil {
		return models.Subject{}, err
	}

	return subject, nil
}

func (s *directorService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.subjects.List(ctx)
}

// AssignTeacher binds a teacher to the (course, subject) edge, creating the
// edge when it does not exist yet and reassigning it when it does.
func (s *directorService) AssignTeacher(ctx context.Context, payload dto.AssignTeacherRequest, actor Actor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	var assignment models.CourseSubject

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByID(ctx, payload.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		subject, err := s.subjects.GetByID(ctx, payload.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubjectNotFound
			}
			return err
		}

		teacher, err := s.profiles.GetTeacherByID(ctx, payload.TeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeacherNotFound
			}
			return err
		}

		teacherID := teacher.ID
		assignment = models.CourseSubject{
			CourseID:  course.ID,
			SubjectID: subject.ID,
			TeacherID: &teacherID,
		}
		if err := s.assignments.Create(ctx, &assignment); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// Edge already exists: reassign its teacher instead.
			existing, err := s.findAssignment(ctx, course.ID, subject.ID)
			if err != nil {
				return err
			}
			if err := s.assignments.SetTeacher(ctx, existing.ID, teacher.ID); err != nil {
				return err
			}
			assignment = existing
			assignment.TeacherID = &teacherID
		}
		assignment.Course = course
		assignment.Subject = subject

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionAssignTeacher,
			Details:   fmt.Sprintf("docente asignado: %s en %s", subject.Name, course.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata: map[string]interface{}{
				"course_subject_id": assignment.ID,
				"teacher_id":        teacher.ID,
			},
		})
	})
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *directorService) findAssignment(ctx context.Context, courseID, subjectID string) (models.CourseSubject, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return models.CourseSubject{}, err
	}
	for _, assignment := range assignments {
		if assignment.SubjectID == subjectID {
			return assignment, nil
		}
	}
	return models.CourseSubject{}, gorm.ErrRecordNotFound
}

func (s *directorService) AssignStudent(ctx context.Context, payload dto.AssignStudentRequest, actor Actor) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	return s.tx.Do(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByID(ctx, payload.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		student, err := s.profiles.GetStudentByID(ctx, payload.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		if err := s.profiles.AssignStudentCourse(ctx, student.ID, course.ID); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionAssignStudent,
			Details:   fmt.Sprintf("estudiante asignado al curso %s", course.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata: map[string]interface{}{
				"student_id": student.ID,
				"course_id":  course.ID,
			},
		})
	})
}

// CreateAcademicYear opens a new year and deactivates every other one inside
// the same transaction, keeping a single active year at all times.
func (s *directorService) CreateAcademicYear(ctx context.Context, payload dto.AcademicYearCreateRequest, actor Actor) (models.AcademicYear, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.AcademicYear{}, err
	}

	year := models.AcademicYear{
		Name:      payload.Name,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Active:    true,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.years.DeactivateAll(ctx); err != nil {
			return err
		}
		if err := s.years.Create(ctx, &year); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreateYear,
			Details:   fmt.Sprintf("ano academico creado: %s", year.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"academic_year_id": year.ID},
		})
	})
	if err != nil {
		return models.AcademicYear{}, err
	}

	return year, nil
}

func (s *directorService) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	return s.years.List(ctx)
}

func (s *directorService) CreateEvent(ctx context.Context, payload dto.EventCreateRequest, actor Actor) (models.Event, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		Title:       payload.Title,
		Description: payload.Description,
		Date:        payload.Date,
		CourseID:    payload.CourseID,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if payload.CourseID != nil {
			if _, err := s.courses.GetByID(ctx, *payload.CourseID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCourseNotFound
				}
				return err
			}
		}

		if err := s.events.Create(ctx, &event); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreateEvent,
			Details:   fmt.Sprintf("evento creado: %s", event.Title),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"event_id": event.ID},
		})
	})
	if err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (s *directorService) SendCommunication(ctx context.Context, payload dto.CommunicationCreateRequest, actor Actor) (models.Communication, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Communication{}, err
	}

	communication := models.Communication{
		Title:       payload.Title,
		Content:     payload.Content,
		Urgent:      payload.Urgent,
		SenderID:    actor.UserID,
		RecipientID: payload.RecipientID,
		CourseID:    payload.CourseID,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.messages.Create(ctx, &communication); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionSendCommunication,
			Details:   fmt.Sprintf("comunicacion enviada: %s", communication.Title),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"communication_id": communication.ID, "urgent": communication.Urgent},
		})
	})
	if err != nil {
		return models.Communication{}, err
	}

	return communication, nil
}

func (s *directorService) SupervisionGrades(ctx context.Context, request dto.SupervisionGradeRequest) ([]dto.GradeResponse, error) {
	grades, err := s.grades.ListForSupervision(ctx, repository.SupervisionGradeFilter{
		CourseID:  request.CourseID,
		SubjectID: request.SubjectID,
		Limit:     request.Limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewGradeResponse(grade))
	}

	return items, nil
}

func (s *directorService) SupervisionAttendance(ctx context.Context, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}

	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AttendanceResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAttendanceResponse(record))
	}

	return items, nil
}
