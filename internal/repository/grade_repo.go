package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// GradeFilter narrows grade listings for a single student.
type GradeFilter struct {
	CourseSubjectID  string
	EvaluationPlanID string
	Limit            int
}

// SupervisionGradeFilter narrows the director's read-only grade view.
type SupervisionGradeFilter struct {
	CourseID  string
	SubjectID string
	Limit     int
}

// GradeRepository defines persistence operations for grades.
type GradeRepository interface {
	GetByStudentAndPlan(ctx context.Context, studentProfileID, planID string) (models.Grade, error)
	ListByStudent(ctx context.Context, studentProfileID string, filter GradeFilter) ([]models.Grade, error)
	ListForSupervision(ctx context.Context, filter SupervisionGradeFilter) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates a GORM-backed repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) GetByStudentAndPlan(ctx context.Context, studentProfileID, planID string) (models.Grade, error) {
	var grade models.Grade
	err := dbFromContext(ctx, r.db).
		First(&grade, "student_id = ? AND evaluation_plan_id = ?", studentProfileID, planID).Error
	if err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) ListByStudent(ctx context.Context, studentProfileID string, filter GradeFilter) ([]models.Grade, error) {
	query := dbFromContext(ctx, r.db).Where("grades.student_id = ?", studentProfileID)

	if filter.EvaluationPlanID != "" {
		query = query.Where("grades.evaluation_plan_id = ?", filter.EvaluationPlanID)
	}
	if filter.CourseSubjectID != "" {
		query = query.
			Joins("JOIN evaluation_plans ON evaluation_plans.id = grades.evaluation_plan_id").
			Where("evaluation_plans.course_subject_id = ?", filter.CourseSubjectID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var grades []models.Grade
	err := query.
		Preload("EvaluationPlan").
		Preload("EvaluationPlan.CourseSubject").
		Preload("EvaluationPlan.CourseSubject.Subject").
		Preload("EvaluationPlan.CourseSubject.Course").
		Preload("EvaluationPlan.CourseSubject.Teacher").
		Preload("EvaluationPlan.CourseSubject.Teacher.User").
		Order("grades.updated_at DESC").
		Find(&grades).Error
	if err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) ListForSupervision(ctx context.Context, filter SupervisionGradeFilter) ([]models.Grade, error) {
	query := dbFromContext(ctx, r.db).
		Joins("JOIN evaluation_plans ON evaluation_plans.id = grades.evaluation_plan_id").
		Joins("JOIN course_subjects ON course_subjects.id = evaluation_plans.course_subject_id")

	if filter.CourseID != "" {
		query = query.Where("course_subjects.course_id = ?", filter.CourseID)
	}
	if filter.SubjectID != "" {
		query = query.Where("course_subjects.subject_id = ?", filter.SubjectID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var grades []models.Grade
	err := query.
		Preload("Student").
		Preload("Student.User").
		Preload("EvaluationPlan").
		Preload("EvaluationPlan.CourseSubject").
		Preload("EvaluationPlan.CourseSubject.Subject").
		Preload("EvaluationPlan.CourseSubject.Course").
		Order("grades.updated_at DESC").
		Limit(limit).
		Find(&grades).Error
	if err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return dbFromContext(ctx, r.db).Create(grade).Error
}

func (r *gradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	return dbFromContext(ctx, r.db).Save(grade).Error
}
