package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// AcademicYearRepository defines persistence operations for academic years.
type AcademicYearRepository interface {
	List(ctx context.Context) ([]models.AcademicYear, error)
	GetByID(ctx context.Context, id string) (models.AcademicYear, error)
	Create(ctx context.Context, year *models.AcademicYear) error
	DeactivateAll(ctx context.Context) error
}

type academicYearRepository struct {
	db *gorm.DB
}

// NewAcademicYearRepository instantiates a GORM-backed repository.
func NewAcademicYearRepository(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepository{db: db}
}

func (r *academicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	err := dbFromContext(ctx, r.db).
		Preload("Courses").
		Order("start_date DESC").
		Find(&years).Error
	if err != nil {
		return nil, err
	}

	return years, nil
}

func (r *academicYearRepository) GetByID(ctx context.Context, id string) (models.AcademicYear, error) {
	var year models.AcademicYear
	if err := dbFromContext(ctx, r.db).First(&year, "id = ?", id).Error; err != nil {
		return models.AcademicYear{}, err
	}

	return year, nil
}

func (r *academicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	return dbFromContext(ctx, r.db).Create(year).Error
}

func (r *academicYearRepository) DeactivateAll(ctx context.Context) error {
	return dbFromContext(ctx, r.db).
		Model(&models.AcademicYear{}).
		Where("active = ?", true).
		Update("active", false).Error
}
