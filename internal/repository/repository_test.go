package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
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
		&models.AuditRecord{},
	))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, name string) models.Course {
	t.Helper()

	level := models.Level{Name: "Primaria"}
	require.NoError(t, db.Create(&level).Error)
	year := models.AcademicYear{Name: "2026", StartDate: time.Now(), EndDate: time.Now().AddDate(1, 0, 0), Active: true}
	require.NoError(t, db.Create(&year).Error)
	course := models.Course{Name: name, LevelID: level.ID, AcademicYearID: year.ID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestGradeRepositoryRejectsSecondRowPerStudentAndPlan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	course := seedCourse(t, db, "1A")
	subject := models.Subject{Name: "Matematica"}
	require.NoError(t, db.Create(&subject).Error)
	assignment := models.CourseSubject{CourseID: course.ID, SubjectID: subject.ID}
	require.NoError(t, db.Create(&assignment).Error)
	plan := models.EvaluationPlan{Title: "Parcial 1", Weight: 30, CourseSubjectID: assignment.ID}
	require.NoError(t, db.Create(&plan).Error)
	student := models.StudentProfile{UserID: "user-1", CourseID: &course.ID}
	require.NoError(t, db.Create(&student).Error)

	first := models.Grade{Score: 70, StudentID: student.ID, EvaluationPlanID: plan.ID}
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := models.Grade{Score: 90, StudentID: student.ID, EvaluationPlanID: plan.ID}
	err := repo.Create(ctx, &duplicate)
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// Overwriting goes through Update and keeps the row identity.
	stored, err := repo.GetByStudentAndPlan(ctx, student.ID, plan.ID)
	require.NoError(t, err)
	stored.Score = 95
	stored.Feedback = "mejor"
	require.NoError(t, repo.Update(ctx, &stored))

	reread, err := repo.GetByStudentAndPlan(ctx, student.ID, plan.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, reread.ID)
	require.Equal(t, 95.0, reread.Score)
}

func TestGradeRepositoryListByStudentFiltersByAssignment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	course := seedCourse(t, db, "2B")
	math := models.Subject{Name: "Matematica"}
	history := models.Subject{Name: "Historia"}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&history).Error)

	mathAssignment := models.CourseSubject{CourseID: course.ID, SubjectID: math.ID}
	historyAssignment := models.CourseSubject{CourseID: course.ID, SubjectID: history.ID}
	require.NoError(t, db.Create(&mathAssignment).Error)
	require.NoError(t, db.Create(&historyAssignment).Error)

	mathPlan := models.EvaluationPlan{Title: "Parcial", Weight: 40, CourseSubjectID: mathAssignment.ID}
	historyPlan := models.EvaluationPlan{Title: "Ensayo", Weight: 20, CourseSubjectID: historyAssignment.ID}
	require.NoError(t, db.Create(&mathPlan).Error)
	require.NoError(t, db.Create(&historyPlan).Error)

	student := models.StudentProfile{UserID: "user-2", CourseID: &course.ID}
	require.NoError(t, db.Create(&student).Error)

	require.NoError(t, repo.Create(ctx, &models.Grade{Score: 80, StudentID: student.ID, EvaluationPlanID: mathPlan.ID}))
	require.NoError(t, repo.Create(ctx, &models.Grade{Score: 60, StudentID: student.ID, EvaluationPlanID: historyPlan.ID}))

	all, err := repo.ListByStudent(ctx, student.ID, GradeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	onlyMath, err := repo.ListByStudent(ctx, student.ID, GradeFilter{CourseSubjectID: mathAssignment.ID})
	require.NoError(t, err)
	require.Len(t, onlyMath, 1)
	require.Equal(t, 80.0, onlyMath[0].Score)
	require.Equal(t, "Matematica", onlyMath[0].EvaluationPlan.CourseSubject.Subject.Name)
}

func TestProfileRepositoryGuardianshipEdge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	course := seedCourse(t, db, "3C")
	linked := models.StudentProfile{UserID: "child-1", CourseID: &course.ID}
	stranger := models.StudentProfile{UserID: "child-2"}
	require.NoError(t, db.Create(&linked).Error)
	require.NoError(t, db.Create(&stranger).Error)

	guardian := models.GuardianProfile{UserID: "tutor-1", Students: []models.StudentProfile{linked}}
	require.NoError(t, db.Create(&guardian).Error)

	exists, err := repo.GuardianshipExists(ctx, guardian.ID, linked.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.GuardianshipExists(ctx, guardian.ID, stranger.ID)
	require.NoError(t, err)
	require.False(t, exists)

	children, err := repo.ListGuardianStudents(ctx, guardian.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, linked.ID, children[0].ID)
	require.Equal(t, "3C", children[0].Course.Name)
}

func TestTxManagerRollsBackEverythingOnError(t *testing.T) {
	db := setupTestDB(t)
	tx := NewTxManager(db)
	users := NewUserRepository(db)
	audits := NewAuditRepository(db)

	boom := errors.New("boom")
	err := tx.Do(context.Background(), func(ctx context.Context) error {
		if err := users.Create(ctx, &models.User{
			Email: "tx@example.com", PasswordHash: "x", FirstName: "A", LastName: "B", Role: models.RoleStudent, Active: true,
		}); err != nil {
			return err
		}
		if err := audits.Create(ctx, &models.AuditRecord{Action: "CREAR_USUARIO", UserID: "actor"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var userCount, auditCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.AuditRecord{}).Count(&auditCount).Error)
	require.Zero(t, userCount)
	require.Zero(t, auditCount)
}

func TestAuditRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.AuditRecord{
			Action:    "CREAR_USUARIO",
			UserID:    "admin-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.AuditRecord{
		Action:    "REGISTRAR_CALIFICACION",
		UserID:    "teacher-1",
		CreatedAt: base.Add(30 * time.Minute),
	}))

	records, total, err := repo.List(ctx, AuditFilter{Action: "CREAR_USUARIO"})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, records, 3)

	records, total, err = repo.List(ctx, AuditFilter{UserID: "teacher-1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "REGISTRAR_CALIFICACION", records[0].Action)

	until := base.Add(45 * time.Minute)
	records, total, err = repo.List(ctx, AuditFilter{Until: &until})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	records, total, err = repo.List(ctx, AuditFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, records, 1)
}
