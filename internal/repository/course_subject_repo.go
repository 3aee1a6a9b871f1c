package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// CourseSubjectRepository defines persistence operations for teaching
// assignments (course × subject edges).
type CourseSubjectRepository interface {
	GetByID(ctx context.Context, id string) (models.CourseSubject, error)
	ListByTeacher(ctx context.Context, teacherProfileID string) ([]models.CourseSubject, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseSubject, error)
	Create(ctx context.Context, assignment *models.CourseSubject) error
	SetTeacher(ctx context.Context, assignmentID, teacherProfileID string) error
}

type courseSubjectRepository struct {
	db *gorm.DB
}

// NewCourseSubjectRepository instantiates a GORM-backed repository.
func NewCourseSubjectRepository(db *gorm.DB) CourseSubjectRepository {
	return &courseSubjectRepository{db: db}
}

func (r *courseSubjectRepository) GetByID(ctx context.Context, id string) (models.CourseSubject, error) {
	var assignment models.CourseSubject
	err := dbFromContext(ctx, r.db).
		Preload("Course").
		Preload("Subject").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return models.CourseSubject{}, err
	}

	return assignment, nil
}

func (r *courseSubjectRepository) ListByTeacher(ctx context.Context, teacherProfileID string) ([]models.CourseSubject, error) {
	var assignments []models.CourseSubject
	err := dbFromContext(ctx, r.db).
		Preload("Course").
		Preload("Course.Level").
		Preload("Course.AcademicYear").
		Preload("Subject").
		Preload("Plans").
		Where("teacher_id = ?", teacherProfileID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *courseSubjectRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseSubject, error) {
	var assignments []models.CourseSubject
	err := dbFromContext(ctx, r.db).
		Preload("Subject").
		Preload("Teacher").
		Preload("Teacher.User").
		Where("course_id = ?", courseID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *courseSubjectRepository) Create(ctx context.Context, assignment *models.CourseSubject) error {
	return dbFromContext(ctx, r.db).Create(assignment).Error
}

func (r *courseSubjectRepository) SetTeacher(ctx context.Context, assignmentID, teacherProfileID string) error {
	result := dbFromContext(ctx, r.db).
		Model(&models.CourseSubject{}).
		Where("id = ?", assignmentID).
		Update("teacher_id", teacherProfileID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
