package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/observability"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/scope"
)

// GuardianService is the guardian's read-only window onto linked students.
// Every child-scoped read passes through the guardianship edge first.
type GuardianService interface {
	Children(ctx context.Context, userID string) ([]dto.ChildResponse, error)
	ChildGrades(ctx context.Context, userID, studentProfileID string, filter repository.GradeFilter) ([]dto.GradeResponse, error)
	ChildAttendance(ctx context.Context, userID, studentProfileID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error)
	Communications(ctx context.Context, userID string, limit int) ([]dto.CommunicationResponse, error)
}

type guardianService struct {
	resolver   *scope.Resolver
	profiles   repository.ProfileRepository
	grades     repository.GradeRepository
	attendance repository.AttendanceRepository
	messages   repository.CommunicationRepository
	logger     zerolog.Logger
}

// NewGuardianService constructs the guardian service.
func NewGuardianService(resolver *scope.Resolver, profiles repository.ProfileRepository, grades repository.GradeRepository, attendance repository.AttendanceRepository, messages repository.CommunicationRepository, logger zerolog.Logger) GuardianService {
	return &guardianService{
		resolver:   resolver,
		profiles:   profiles,
		grades:     grades,
		attendance: attendance,
		messages:   messages,
		logger:     logger.With().Str("component", "guardian_service").Logger(),
	}
}

func (s *guardianService) Children(ctx context.Context, userID string) ([]dto.ChildResponse, error) {
	guardian, err := s.resolver.GuardianSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	students, err := s.profiles.ListGuardianStudents(ctx, guardian.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChildResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewChildResponse(student))
	}

	return items, nil
}

func (s *guardianService) ChildGrades(ctx context.Context, userID, studentProfileID string, filter repository.GradeFilter) ([]dto.GradeResponse, error) {
	if _, err := s.resolver.Guardianship(ctx, userID, studentProfileID); err != nil {
		s.countDenial(err)
		return nil, err
	}

	grades, err := s.grades.ListByStudent(ctx, studentProfileID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GradeResponse, 0, len(grades))
	for _, grade := range grades {
		items = append(items, dto.NewGradeResponse(grade))
	}

	return items, nil
}

func (s *guardianService) ChildAttendance(ctx context.Context, userID, studentProfileID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error) {
	if _, err := s.resolver.Guardianship(ctx, userID, studentProfileID); err != nil {
		s.countDenial(err)
		return nil, err
	}

	filter.StudentProfileID = studentProfileID
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

func (s *guardianService) Communications(ctx context.Context, userID string, limit int) ([]dto.CommunicationResponse, error) {
	guardian, err := s.resolver.GuardianSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	students, err := s.profiles.ListGuardianStudents(ctx, guardian.ID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]string, 0, len(students))
	for _, student := range students {
		if student.CourseID != nil {
			courseIDs = append(courseIDs, *student.CourseID)
		}
	}

	communications, err := s.messages.ListForRecipient(ctx, userID, courseIDs, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommunicationResponse, 0, len(communications))
	for _, communication := range communications {
		items = append(items, dto.NewCommunicationResponse(communication))
	}

	return items, nil
}

func (s *guardianService) countDenial(err error) {
	if errors.Is(err, scope.ErrScopeViolation) {
		observability.ScopeDenials().WithLabelValues(string(models.RoleGuardian)).Inc()
	}
}
