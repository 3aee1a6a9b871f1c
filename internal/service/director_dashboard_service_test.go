package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
)

func setupDashboardService(t *testing.T) (DirectorDashboardService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db := newTestDB(t, "director_dashboard")

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	svc := NewDirectorDashboardService(repository.NewStatsRepository(db), repository.NewAttendanceRepository(db), cache, time.Minute, testLogger())

	return svc, db, server
}

func seedDashboardData(t *testing.T, db *gorm.DB) {
	t.Helper()

	level := models.Level{Name: "Primaria"}
	require.NoError(t, db.Create(&level).Error)
	year := models.AcademicYear{
		Name:      "2026",
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	require.NoError(t, db.Create(&year).Error)
	course := models.Course{Name: "1ro A", LevelID: level.ID, AcademicYearID: year.ID}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Create(&models.TeacherProfile{UserID: "user-t1"}).Error)
	studentA := models.StudentProfile{UserID: "user-s1", CourseID: &course.ID}
	studentB := models.StudentProfile{UserID: "user-s2", CourseID: &course.ID}
	require.NoError(t, db.Create(&studentA).Error)
	require.NoError(t, db.Create(&studentB).Error)

	subject := models.Subject{Name: "Lengua"}
	require.NoError(t, db.Create(&subject).Error)
	assignment := models.CourseSubject{CourseID: course.ID, SubjectID: subject.ID}
	require.NoError(t, db.Create(&assignment).Error)

	yesterday := time.Now().Add(-24 * time.Hour)
	for _, record := range []models.Attendance{
		{StudentID: studentA.ID, CourseSubjectID: assignment.ID, Status: models.AttendancePresent, Date: yesterday},
		{StudentID: studentB.ID, CourseSubjectID: assignment.ID, Status: models.AttendancePresent, Date: yesterday},
		{StudentID: studentA.ID, CourseSubjectID: assignment.ID, Status: models.AttendancePresent, Date: yesterday.Add(-24 * time.Hour)},
		{StudentID: studentB.ID, CourseSubjectID: assignment.ID, Status: models.AttendanceAbsent, Date: yesterday.Add(-24 * time.Hour)},
	} {
		require.NoError(t, db.Create(&record).Error)
	}
}

func TestDirectorDashboardAggregates(t *testing.T) {
	svc, db, _ := setupDashboardService(t)
	seedDashboardData(t, db)

	response, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, response.Students)
	require.EqualValues(t, 1, response.Teachers)
	require.EqualValues(t, 1, response.Courses)
	require.Len(t, response.ActiveYears, 1)
	require.Equal(t, 1, response.ActiveYears[0].Courses)
	require.Equal(t, 2, response.ActiveYears[0].Students)
	require.InDelta(t, 0.75, response.AttendanceRate, 0.0001)
}

func TestDirectorDashboardServesFromCache(t *testing.T) {
	svc, db, _ := setupDashboardService(t)
	seedDashboardData(t, db)

	first, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	// New data arriving within the TTL is not reflected yet.
	require.NoError(t, db.Create(&models.StudentProfile{UserID: "user-s3"}).Error)

	second, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.Students, second.Students)
	require.Equal(t, first.GeneratedAt.Unix(), second.GeneratedAt.Unix())
}

func TestDirectorDashboardRecomputesAfterExpiry(t *testing.T) {
	svc, db, server := setupDashboardService(t)
	seedDashboardData(t, db)

	_, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.StudentProfile{UserID: "user-s3"}).Error)
	server.FastForward(2 * time.Minute)

	refreshed, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, refreshed.Students)
}

func TestDirectorDashboardWorksWithoutCache(t *testing.T) {
	db := newTestDB(t, "director_dashboard_nocache")
	seedDashboardData(t, db)

	svc := NewDirectorDashboardService(repository.NewStatsRepository(db), repository.NewAttendanceRepository(db), nil, time.Minute, testLogger())

	response, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, response.Students)
}
