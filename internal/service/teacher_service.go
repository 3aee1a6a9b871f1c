package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/observability"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/scope"
)

// ErrPlanNotFound indicates the referenced evaluation plan does not exist or
// is not reachable by the caller.
var ErrPlanNotFound = errors.New("evaluation plan not found")

// TeacherService covers the teacher's scoped surface: workload, rosters,
// evaluation plans, grades and attendance. Every mutation re-verifies the
// teaching-assignment edge inside the same transaction that writes the data
// and its audit record.
type TeacherService interface {
	Workload(ctx context.Context, userID string) ([]dto.AssignmentResponse, error)
	CourseStudents(ctx context.Context, userID, assignmentID string) ([]dto.CourseStudentResponse, error)
	CreatePlan(ctx context.Context, userID string, payload dto.EvaluationPlanCreateRequest, actor Actor) (dto.EvaluationPlanResponse, error)
	ListPlans(ctx context.Context, userID string, filter repository.EvaluationPlanFilter) ([]dto.EvaluationPlanResponse, error)
	RecordGrade(ctx context.Context, userID string, payload dto.GradeRecordRequest, actor Actor) (dto.GradeResponse, error)
	RecordAttendance(ctx context.Context, userID string, payload dto.AttendanceBatchRequest, actor Actor) ([]dto.AttendanceResponse, error)
	ListAttendance(ctx context.Context, userID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error)
}

type teacherService struct {
	resolver    *scope.Resolver
	assignments repository.CourseSubjectRepository
	profiles    repository.ProfileRepository
	plans       repository.EvaluationPlanRepository
	grades      repository.GradeRepository
	attendance  repository.AttendanceRepository
	tx          repository.TxManager
	audit       AuditRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// TeacherDeps bundles the stores the teacher service operates on.
type TeacherDeps struct {
	Resolver    *scope.Resolver
	Assignments repository.CourseSubjectRepository
	Profiles    repository.ProfileRepository
	Plans       repository.EvaluationPlanRepository
	Grades      repository.GradeRepository
	Attendance  repository.AttendanceRepository
	Tx          repository.TxManager
	Audit       AuditRecorder
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(deps TeacherDeps, validate *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		resolver:    deps.Resolver,
		assignments: deps.Assignments,
		profiles:    deps.Profiles,
		plans:       deps.Plans,
		grades:      deps.Grades,
		attendance:  deps.Attendance,
		tx:          deps.Tx,
		audit:       deps.Audit,
		validator:   validate,
		logger:      logger.With().Str("component", "teacher_service").Logger(),
		tracer:      otel.Tracer("github.com/academico-latam/academico-api/internal/service/teacher"),
	}
}

func (s *teacherService) Workload(ctx context.Context, userID string) ([]dto.AssignmentResponse, error) {
	teacher, err := s.resolver.TeacherSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, dto.NewAssignmentResponse(assignment))
	}

	return items, nil
}

func (s *teacherService) CourseStudents(ctx context.Context, userID, assignmentID string) ([]dto.CourseStudentResponse, error) {
	assignment, err := s.resolver.TeachingAssignment(ctx, userID, assignmentID)
	if err != nil {
		s.countDenial(err)
		return nil, err
	}

	students, err := s.profiles.ListStudentsByCourse(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseStudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewCourseStudentResponse(student))
	}

	return items, nil
}

func (s *teacherService) CreatePlan(ctx context.Context, userID string, payload dto.EvaluationPlanCreateRequest, actor Actor) (dto.EvaluationPlanResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationPlanResponse{}, err
	}

	var plan models.EvaluationPlan

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		assignment, err := s.resolver.TeachingAssignment(ctx, userID, payload.CourseSubjectID)
		if err != nil {
			s.countDenial(err)
			return err
		}

		plan = models.EvaluationPlan{
			Title:           payload.Title,
			Description:     payload.Description,
			Weight:          payload.Weight,
			Date:            payload.Date,
			CourseSubjectID: assignment.ID,
		}
		if err := s.plans.Create(ctx, &plan); err != nil {
			return err
		}
		plan.CourseSubject = assignment

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreatePlan,
			Details:   fmt.Sprintf("plan de evaluacion creado: %s (%s)", plan.Title, assignment.Subject.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata: map[string]interface{}{
				"evaluation_plan_id": plan.ID,
				"course_subject_id":  assignment.ID,
			},
		})
	})
	if err != nil {
		return dto.EvaluationPlanResponse{}, err
	}

	return dto.NewEvaluationPlanResponse(plan), nil
}

func (s *teacherService) ListPlans(ctx context.Context, userID string, filter repository.EvaluationPlanFilter) ([]dto.EvaluationPlanResponse, error) {
	teacher, err := s.resolver.TeacherSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	plans, err := s.plans.ListByTeacher(ctx, teacher.ID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EvaluationPlanResponse, 0, len(plans))
	for _, plan := range plans {
		items = append(items, dto.NewEvaluationPlanResponse(plan))
	}

	return items, nil
}

// RecordGrade writes or overwrites the (student, plan) score. The ownership
// edge and the student's enrollment are re-checked inside the transaction.
func (s *teacherService) RecordGrade(ctx context.Context, userID string, payload dto.GradeRecordRequest, actor Actor) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grade.record")
	span.SetAttributes(
		attribute.String("grade.student_id", payload.StudentID),
		attribute.String("grade.plan_id", payload.EvaluationPlanID),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeResponse{}, err
	}

	var grade models.Grade

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		plan, err := s.plans.GetWithAssignment(ctx, payload.EvaluationPlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}

		assignment, err := s.resolver.TeachingAssignment(ctx, userID, plan.CourseSubjectID)
		if err != nil {
			s.countDenial(err)
			return err
		}

		if _, err := s.resolver.StudentInAssignment(ctx, assignment, payload.StudentID); err != nil {
			s.countDenial(err)
			return err
		}

		existing, err := s.grades.GetByStudentAndPlan(ctx, payload.StudentID, plan.ID)
		switch {
		case err == nil:
			existing.Score = payload.Score
			existing.Feedback = payload.Feedback
			if err := s.grades.Update(ctx, &existing); err != nil {
				return err
			}
			grade = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			grade = models.Grade{
				Score:            payload.Score,
				Feedback:         payload.Feedback,
				StudentID:        payload.StudentID,
				EvaluationPlanID: plan.ID,
			}
			if err := s.grades.Create(ctx, &grade); err != nil {
				return err
			}
		default:
			return err
		}
		grade.EvaluationPlan = plan

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionRecordGrade,
			Details:   fmt.Sprintf("calificacion registrada: %s", plan.Title),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata: map[string]interface{}{
				"grade_id":           grade.ID,
				"student_id":         grade.StudentID,
				"evaluation_plan_id": plan.ID,
				"score":              grade.Score,
			},
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_record_failed")
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

func (s *teacherService) RecordAttendance(ctx context.Context, userID string, payload dto.AttendanceBatchRequest, actor Actor) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	var records []models.Attendance

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		assignment, err := s.resolver.TeachingAssignment(ctx, userID, payload.CourseSubjectID)
		if err != nil {
			s.countDenial(err)
			return err
		}

		records = make([]models.Attendance, 0, len(payload.Entries))
		for _, entry := range payload.Entries {
			if _, err := s.resolver.StudentInAssignment(ctx, assignment, entry.StudentID); err != nil {
				s.countDenial(err)
				return err
			}
			records = append(records, models.Attendance{
				StudentID:       entry.StudentID,
				CourseSubjectID: assignment.ID,
				Status:          entry.Status,
				Date:            payload.Date,
			})
		}

		if err := s.attendance.CreateBatch(ctx, records); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionRecordAttendance,
			Details:   fmt.Sprintf("asistencia registrada: %d estudiantes (%s)", len(records), assignment.Subject.Name),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata: map[string]interface{}{
				"course_subject_id": assignment.ID,
				"entries":           len(records),
				"date":              payload.Date,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.AttendanceResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAttendanceResponse(record))
	}

	return items, nil
}

func (s *teacherService) ListAttendance(ctx context.Context, userID string, filter repository.AttendanceFilter) ([]dto.AttendanceResponse, error) {
	teacher, err := s.resolver.TeacherSelf(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListByTeacher(ctx, teacher.ID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AttendanceResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAttendanceResponse(record))
	}

	return items, nil
}

func (s *teacherService) countDenial(err error) {
	if errors.Is(err, scope.ErrScopeViolation) || errors.Is(err, scope.ErrStudentOutsideScope) {
		observability.ScopeDenials().WithLabelValues(string(models.RoleTeacher)).Inc()
	}
}
