package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/scope"
)

type teacherFixture struct {
	svc        TeacherService
	audit      *stubAuditRecorder
	db         *gorm.DB
	teacher    models.TeacherProfile
	other      models.TeacherProfile
	assignment models.CourseSubject // owned by teacher
	foreign    models.CourseSubject // owned by other
	student    models.StudentProfile
	outsider   models.StudentProfile // enrolled in the foreign course
	plan       models.EvaluationPlan
}

func setupTeacherService(t *testing.T) teacherFixture {
	t.Helper()

	db := newTestDB(t, "teacher_service")
	audit := &stubAuditRecorder{}

	profiles := repository.NewProfileRepository(db)
	assignments := repository.NewCourseSubjectRepository(db)
	resolver := scope.NewResolver(profiles, assignments)

	svc := NewTeacherService(TeacherDeps{
		Resolver:    resolver,
		Assignments: assignments,
		Profiles:    profiles,
		Plans:       repository.NewEvaluationPlanRepository(db),
		Grades:      repository.NewGradeRepository(db),
		Attendance:  repository.NewAttendanceRepository(db),
		Tx:          repository.NewTxManager(db),
		Audit:       audit,
	}, testValidator(), testLogger())

	level := models.Level{Name: "Primaria"}
	require.NoError(t, db.Create(&level).Error)
	year := models.AcademicYear{
		Name:      "2026",
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	require.NoError(t, db.Create(&year).Error)

	courseA := models.Course{Name: "5to A", LevelID: level.ID, AcademicYearID: year.ID}
	courseB := models.Course{Name: "5to B", LevelID: level.ID, AcademicYearID: year.ID}
	require.NoError(t, db.Create(&courseA).Error)
	require.NoError(t, db.Create(&courseB).Error)

	subject := models.Subject{Name: "Lengua"}
	require.NoError(t, db.Create(&subject).Error)

	teacher := models.TeacherProfile{UserID: "user-teacher"}
	other := models.TeacherProfile{UserID: "user-other"}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&other).Error)

	owned := models.CourseSubject{CourseID: courseA.ID, SubjectID: subject.ID, TeacherID: &teacher.ID}
	foreign := models.CourseSubject{CourseID: courseB.ID, SubjectID: subject.ID, TeacherID: &other.ID}
	require.NoError(t, db.Create(&owned).Error)
	require.NoError(t, db.Create(&foreign).Error)

	student := models.StudentProfile{UserID: "user-student", CourseID: &courseA.ID}
	outsider := models.StudentProfile{UserID: "user-outsider", CourseID: &courseB.ID}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&outsider).Error)

	plan := models.EvaluationPlan{Title: "Dictado 1", Weight: 20, CourseSubjectID: owned.ID}
	require.NoError(t, db.Create(&plan).Error)

	return teacherFixture{
		svc:        svc,
		audit:      audit,
		db:         db,
		teacher:    teacher,
		other:      other,
		assignment: owned,
		foreign:    foreign,
		student:    student,
		outsider:   outsider,
		plan:       plan,
	}
}

func teacherActor() Actor {
	return Actor{UserID: "user-teacher", Role: models.RoleTeacher, IPAddress: "10.0.0.3"}
}

func TestTeacherServiceRecordGradeCreatesThenOverwrites(t *testing.T) {
	fx := setupTeacherService(t)

	first, err := fx.svc.RecordGrade(context.Background(), "user-teacher", dto.GradeRecordRequest{
		StudentID:        fx.student.ID,
		EvaluationPlanID: fx.plan.ID,
		Score:            70,
		Feedback:         "puede mejorar",
	}, teacherActor())
	require.NoError(t, err)
	require.Equal(t, 70.0, first.Score)

	second, err := fx.svc.RecordGrade(context.Background(), "user-teacher", dto.GradeRecordRequest{
		StudentID:        fx.student.ID,
		EvaluationPlanID: fx.plan.ID,
		Score:            85,
		Feedback:         "mucho mejor",
	}, teacherActor())
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 85.0, second.Score)

	var count int64
	require.NoError(t, fx.db.Model(&models.Grade{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.Equal(t, []string{AuditActionRecordGrade, AuditActionRecordGrade}, fx.audit.actions())
}

func TestTeacherServiceRecordGradeCrossCourseStudent(t *testing.T) {
	fx := setupTeacherService(t)

	_, err := fx.svc.RecordGrade(context.Background(), "user-teacher", dto.GradeRecordRequest{
		StudentID:        fx.outsider.ID,
		EvaluationPlanID: fx.plan.ID,
		Score:            90,
	}, teacherActor())
	require.ErrorIs(t, err, scope.ErrStudentOutsideScope)
	require.Empty(t, fx.audit.entries)

	var count int64
	require.NoError(t, fx.db.Model(&models.Grade{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestTeacherServiceCreatePlanOnForeignAssignment(t *testing.T) {
	fx := setupTeacherService(t)

	_, err := fx.svc.CreatePlan(context.Background(), "user-teacher", dto.EvaluationPlanCreateRequest{
		CourseSubjectID: fx.foreign.ID,
		Title:           "Plan ajeno",
		Weight:          10,
	}, teacherActor())
	require.ErrorIs(t, err, scope.ErrScopeViolation)

	// Nonexistent assignment fails identically.
	_, err = fx.svc.CreatePlan(context.Background(), "user-teacher", dto.EvaluationPlanCreateRequest{
		CourseSubjectID: "22222222-2222-4222-8222-222222222222",
		Title:           "Plan fantasma",
		Weight:          10,
	}, teacherActor())
	require.ErrorIs(t, err, scope.ErrScopeViolation)
}

func TestTeacherServiceRecordAttendanceBatch(t *testing.T) {
	fx := setupTeacherService(t)

	date := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	records, err := fx.svc.RecordAttendance(context.Background(), "user-teacher", dto.AttendanceBatchRequest{
		CourseSubjectID: fx.assignment.ID,
		Date:            date,
		Entries: []dto.AttendanceEntry{
			{StudentID: fx.student.ID, Status: models.AttendancePresent},
		},
	}, teacherActor())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendancePresent, records[0].Status)
	require.Equal(t, []string{AuditActionRecordAttendance}, fx.audit.actions())
}

func TestTeacherServiceRecordAttendanceRejectsWholeBatchOnOutsider(t *testing.T) {
	fx := setupTeacherService(t)

	_, err := fx.svc.RecordAttendance(context.Background(), "user-teacher", dto.AttendanceBatchRequest{
		CourseSubjectID: fx.assignment.ID,
		Date:            time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
		Entries: []dto.AttendanceEntry{
			{StudentID: fx.student.ID, Status: models.AttendancePresent},
			{StudentID: fx.outsider.ID, Status: models.AttendanceAbsent},
		},
	}, teacherActor())
	require.ErrorIs(t, err, scope.ErrStudentOutsideScope)

	// All-or-nothing: the valid entry rolled back with the batch.
	var count int64
	require.NoError(t, fx.db.Model(&models.Attendance{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestTeacherServiceRecordAttendanceValidatesStatus(t *testing.T) {
	fx := setupTeacherService(t)

	_, err := fx.svc.RecordAttendance(context.Background(), "user-teacher", dto.AttendanceBatchRequest{
		CourseSubjectID: fx.assignment.ID,
		Date:            time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
		Entries: []dto.AttendanceEntry{
			{StudentID: fx.student.ID, Status: "DESCONOCIDO"},
		},
	}, teacherActor())
	require.Error(t, err)
}

func TestTeacherServiceWorkloadOnlyOwnAssignments(t *testing.T) {
	fx := setupTeacherService(t)

	items, err := fx.svc.Workload(context.Background(), "user-teacher")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, fx.assignment.ID, items[0].ID)
}

func TestTeacherServiceCourseStudentsForeignAssignment(t *testing.T) {
	fx := setupTeacherService(t)

	_, err := fx.svc.CourseStudents(context.Background(), "user-teacher", fx.foreign.ID)
	require.ErrorIs(t, err, scope.ErrScopeViolation)
}
