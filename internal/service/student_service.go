package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/scope"
)

// StudentService is the student's self-scoped surface. Every operation
// resolves the caller's own profile first; a student can never address
// another student's records.
type StudentService interface {
	Profile(ctx context.Context, userID string) (dto.StudentProfileResponse, error)
	Grades(ctx context.Context, userID string, filter repository.GradeFilter) ([]dto.GradeResponse, error)
	Attendance(ctx context.Context, userID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error)
	Agenda(ctx context.Context, userID string, until *time.Time) (dto.AgendaResponse, error)
	Messages(ctx context.Context, userID string, messageType string, limit int) ([]dto.CourseMessageResponse, error)
}

type studentService struct {
	resolver   *scope.Resolver
	grades     repository.GradeRepository
	attendance repository.AttendanceRepository
	plans      repository.EvaluationPlanRepository
	events     repository.EventRepository
	messages   repository.CommunicationRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// StudentDeps bundles the stores the student service reads from.
type StudentDeps struct {
	Resolver   *scope.Resolver
	Grades     repository.GradeRepository
	Attendance repository.AttendanceRepository
	Plans      repository.EvaluationPlanRepository
	Events     repository.EventRepository
	Messages   repository.CommunicationRepository
}

// NewStudentService constructs the student service.
func NewStudentService(deps StudentDeps, logger zerolog.Logger) StudentService {
	return &studentService{
		resolver:   deps.Resolver,
		grades:     deps.Grades,
		attendance: deps.Attendance,
		plans:      deps.Plans,
		events:     deps.Events,
		messages:   deps.Messages,
		logger:     logger.With().Str("component", "student_service").Logger(),
		now:        time.Now,
	}
}

func (s *studentService) Profile(ctx context.Context, userID string) (dto.StudentProfileResponse, error) {
	student, err := s.resolver.StudentSelf(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(student), nil
}

func (s *studentService) Grades(ctx context.Context, userID string, filter repository.GradeFilter) ([]dto.GradeResponse, error) {
	student, err := s.resolver.StudentSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	grades, err := s.grades.ListByStudent(ctx, student.ID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewGradeResponse(grade))
	}

	return items, nil
}

func (s *studentService) Attendance(ctx context.Context, userID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error) {
	student, err := s.resolver.StudentSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter.StudentProfileID = student.ID
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

// Agenda merges upcoming evaluations and calendar events for the student's
// course, sorted by date. Students without a course placement only see
// school-wide events.
func (s *studentService) Agenda(ctx context.Context, userID string, until *time.Time) (dto.AgendaResponse, error) {
	student, err := s.resolver.StudentSelf(ctx, userID)
	if err != nil {
		return dto.AgendaResponse{}, err
	}

	from := s.now()
	items := []dto.AgendaItemResponse{}

	courseID := ""
	if student.CourseID != nil {
		courseID = *student.CourseID

		plans, err := s.plans.ListUpcomingByCourse(ctx, courseID, from, until, 50)
		if err != nil {
			return dto.AgendaResponse{}, err
		}
		for _, plan := range plans {
			if plan.Date == nil {
				continue
			}
			items = append(items, dto.AgendaItemResponse{
				Kind:    "evaluation",
				Title:   plan.Title,
				Subject: plan.CourseSubject.Subject.Name,
				Date:    *plan.Date,
			})
		}
	}

	events, err := s.events.ListForCourse(ctx, courseID, from, until, 50)
	if err != nil {
		return dto.AgendaResponse{}, err
	}
	for _, event := range events {
		items = append(items, dto.AgendaItemResponse{
			Kind:  "event",
			Title: event.Title,
			Date:  event.Date,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })

	return dto.AgendaResponse{Items: items}, nil
}

func (s *studentService) Messages(ctx context.Context, userID string, messageType string, limit int) ([]dto.CourseMessageResponse, error) {
	student, err := s.resolver.StudentSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	if student.CourseID == nil {
		return []dto.CourseMessageResponse{}, nil
	}

	messages, err := s.messages.ListCourseMessages(ctx, []string{*student.CourseID}, messageType, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseMessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, dto.NewCourseMessageResponse(message))
	}

	return items, nil
}
