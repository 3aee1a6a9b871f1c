package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DirectorProfile{},
		&models.TeacherProfile{},
		&models.GuardianProfile{},
		&models.StudentProfile{},
		&models.AcademicYear{},
		&models.Level{},
		&models.Course{},
		&models.Subject{},
		&models.CourseSubject{},
		&models.EvaluationPlan{},
		&models.Grade{},
		&models.Attendance{},
		&models.Event{},
		&models.Communication{},
		&models.CourseMessage{},
		&models.AuditRecord{},
	))

	return db
}

type stubAuditRecorder struct {
	entries []AuditEntry
	fail    error
}

func (s *stubAuditRecorder) Record(_ context.Context, entry AuditEntry) error {
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRecorder) actions() []string {
	actions := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
