package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/scope"
)

type guardianFixture struct {
	svc      GuardianService
	db       *gorm.DB
	guardian models.GuardianProfile
	linked   models.StudentProfile
	unlinked models.StudentProfile
}

func setupGuardianService(t *testing.T) guardianFixture {
	t.Helper()

	db := newTestDB(t, "guardian_service")

	profiles := repository.NewProfileRepository(db)
	assignments := repository.NewCourseSubjectRepository(db)
	resolver := scope.NewResolver(profiles, assignments)

	svc := NewGuardianService(
		resolver,
		profiles,
		repository.NewGradeRepository(db),
		repository.NewAttendanceRepository(db),
		repository.NewCommunicationRepository(db),
		testLogger(),
	)

	level := models.Level{Name: "Primaria"}
	require.NoError(t, db.Create(&level).Error)
	year := models.AcademicYear{
		Name:      "2026",
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	require.NoError(t, db.Create(&year).Error)
	course := models.Course{Name: "2do A", LevelID: level.ID, AcademicYearID: year.ID}
	require.NoError(t, db.Create(&course).Error)

	linkedUser := models.User{Email: "hija@colegio.edu", PasswordHash: "x", FirstName: "Hija", LastName: "Linked", Role: models.RoleStudent, Active: true}
	require.NoError(t, db.Create(&linkedUser).Error)
	linked := models.StudentProfile{UserID: linkedUser.ID, CourseID: &course.ID}
	require.NoError(t, db.Create(&linked).Error)

	unlinked := models.StudentProfile{UserID: "user-unlinked", CourseID: &course.ID}
	require.NoError(t, db.Create(&unlinked).Error)

	guardian := models.GuardianProfile{UserID: "user-guardian", Students: []models.StudentProfile{linked}}
	require.NoError(t, db.Create(&guardian).Error)

	return guardianFixture{svc: svc, db: db, guardian: guardian, linked: linked, unlinked: unlinked}
}

func TestGuardianServiceChildrenListsLinkedOnly(t *testing.T) {
	fx := setupGuardianService(t)

	children, err := fx.svc.Children(context.Background(), "user-guardian")
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, fx.linked.ID, children[0].ID)
	require.Equal(t, "2do A", children[0].Course)
}

func TestGuardianServiceChildGradesDeniedForUnlinkedStudent(t *testing.T) {
	fx := setupGuardianService(t)

	_, err := fx.svc.ChildGrades(context.Background(), "user-guardian", fx.unlinked.ID, repository.GradeFilter{})
	require.ErrorIs(t, err, scope.ErrScopeViolation)

	// Nonexistent student id fails the same way.
	_, err = fx.svc.ChildGrades(context.Background(), "user-guardian", "33333333-3333-4333-8333-333333333333", repository.GradeFilter{})
	require.ErrorIs(t, err, scope.ErrScopeViolation)
}

func TestGuardianServiceChildAttendanceScopedToChild(t *testing.T) {
	fx := setupGuardianService(t)

	subject := models.Subject{Name: "Historia"}
	require.NoError(t, fx.db.Create(&subject).Error)
	assignment := models.CourseSubject{CourseID: *fx.linked.CourseID, SubjectID: subject.ID}
	require.NoError(t, fx.db.Create(&assignment).Error)

	date := time.Date(2026, time.April, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, fx.db.Create(&models.Attendance{
		StudentID:       fx.linked.ID,
		CourseSubjectID: assignment.ID,
		Status:          models.AttendanceLate,
		Date:            date,
	}).Error)
	require.NoError(t, fx.db.Create(&models.Attendance{
		StudentID:       fx.unlinked.ID,
		CourseSubjectID: assignment.ID,
		Status:          models.AttendancePresent,
		Date:            date,
	}).Error)

	records, err := fx.svc.ChildAttendance(context.Background(), "user-guardian", fx.linked.ID, repository.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, fx.linked.ID, records[0].StudentID)
	require.Equal(t, models.AttendanceLate, records[0].Status)
}

func TestGuardianServiceWithoutProfile(t *testing.T) {
	fx := setupGuardianService(t)

	_, err := fx.svc.Children(context.Background(), "user-without-guardian-profile")
	require.ErrorIs(t, err, scope.ErrProfileNotFound)
}

func TestGuardianServiceCommunicationsIncludeCourseWide(t *testing.T) {
	fx := setupGuardianService(t)

	require.NoError(t, fx.db.Create(&models.Communication{
		Title:    "Solo para el tutor",
		Content:  "mensaje directo",
		SenderID: "director-1",
		RecipientID: func() *string {
			id := "user-guardian"
			return &id
		}(),
	}).Error)
	require.NoError(t, fx.db.Create(&models.Communication{
		Title:    "Para el curso",
		Content:  "mensaje del curso",
		SenderID: "director-1",
		CourseID: fx.linked.CourseID,
	}).Error)
	require.NoError(t, fx.db.Create(&models.Communication{
		Title:    "Para otra persona",
		Content:  "ajeno",
		SenderID: "director-1",
		RecipientID: func() *string {
			id := "user-someone-else"
			return &id
		}(),
	}).Error)

	items, err := fx.svc.Communications(context.Background(), "user-guardian", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
}
