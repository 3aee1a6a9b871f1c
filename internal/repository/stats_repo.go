package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// StatsRepository aggregates the counters feeding the director dashboard.
type StatsRepository interface {
	CountStudents(ctx context.Context) (int64, error)
	CountTeachers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	ListActiveYears(ctx context.Context) ([]models.AcademicYear, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository instantiates a GORM-backed repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.StudentProfile{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountTeachers(ctx context.Context) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.TeacherProfile{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.Course{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) ListActiveYears(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	err := dbFromContext(ctx, r.db).
		Preload("Courses").
		Preload("Courses.Students").
		Where("active = ?", true).
		Find(&years).Error
	if err != nil {
		return nil, err
	}

	return years, nil
}
