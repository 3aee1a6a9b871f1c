package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// CourseFilter describes pagination & search options for course listings.
type CourseFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CourseRepository defines persistence operations for courses and levels.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	GetLevelByID(ctx context.Context, id string) (models.Level, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.Course{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.
			Joins("JOIN levels ON levels.id = courses.level_id").
			Where("LOWER(courses.name) LIKE ? OR LOWER(levels.name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var courses []models.Course
	err := query.
		Preload("Level").
		Preload("AcademicYear").
		Preload("Students").
		Preload("Students.User").
		Preload("Subjects").
		Preload("Subjects.Subject").
		Preload("Subjects.Teacher").
		Preload("Subjects.Teacher.User").
		Order("courses.name ASC").
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	err := dbFromContext(ctx, r.db).
		Preload("Level").
		Preload("AcademicYear").
		First(&course, "id = ?", id).Error
	if err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return dbFromContext(ctx, r.db).Create(course).Error
}

func (r *courseRepository) GetLevelByID(ctx context.Context, id string) (models.Level, error) {
	var level models.Level
	if err := dbFromContext(ctx, r.db).First(&level, "id = ?", id).Error; err != nil {
		return models.Level{}, err
	}

	return level, nil
}
