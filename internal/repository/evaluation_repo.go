package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// EvaluationPlanFilter narrows plan listings.
type EvaluationPlanFilter struct {
	CourseSubjectID string
}

// EvaluationPlanRepository defines persistence operations for evaluation plans.
type EvaluationPlanRepository interface {
	GetWithAssignment(ctx context.Context, id string) (models.EvaluationPlan, error)
	ListByTeacher(ctx context.Context, teacherProfileID string, filter EvaluationPlanFilter) ([]models.EvaluationPlan, error)
	ListUpcomingByCourse(ctx context.Context, courseID string, from time.Time, until *time.Time, limit int) ([]models.EvaluationPlan, error)
	Create(ctx context.Context, plan *models.EvaluationPlan) error
}

type evaluationPlanRepository struct {
	db *gorm.DB
}

// NewEvaluationPlanRepository instantiates a GORM-backed repository.
func NewEvaluationPlanRepository(db *gorm.DB) EvaluationPlanRepository {
	return &evaluationPlanRepository{db: db}
}

func (r *evaluationPlanRepository) GetWithAssignment(ctx context.Context, id string) (models.EvaluationPlan, error) {
	var plan models.EvaluationPlan
	err := dbFromContext(ctx, r.db).
		Preload("CourseSubject").
		Preload("CourseSubject.Course").
		Preload("CourseSubject.Subject").
		First(&plan, "id = ?", id).Error
	if err != nil {
		return models.EvaluationPlan{}, err
	}

	return plan, nil
}

func (r *evaluationPlanRepository) ListByTeacher(ctx context.Context, teacherProfileID string, filter EvaluationPlanFilter) ([]models.EvaluationPlan, error) {
	query := dbFromContext(ctx, r.db).
		Joins("JOIN course_subjects ON course_subjects.id = evaluation_plans.course_subject_id").
		Where("course_subjects.teacher_id = ?", teacherProfileID)

	if filter.CourseSubjectID != "" {
		query = query.Where("evaluation_plans.course_subject_id = ?", filter.CourseSubjectID)
	}

	var plans []models.EvaluationPlan
	err := query.
		Preload("CourseSubject").
		Preload("CourseSubject.Course").
		Preload("CourseSubject.Subject").
		Preload("Grades").
		Order("evaluation_plans.date ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *evaluationPlanRepository) ListUpcomingByCourse(ctx context.Context, courseID string, from time.Time, until *time.Time, limit int) ([]models.EvaluationPlan, error) {
	query := dbFromContext(ctx, r.db).
		Joins("JOIN course_subjects ON course_subjects.id = evaluation_plans.course_subject_id").
		Where("course_subjects.course_id = ?", courseID).
		Where("evaluation_plans.date >= ?", from)

	if until != nil {
		query = query.Where("evaluation_plans.date <= ?", *until)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var plans []models.EvaluationPlan
	err := query.
		Preload("CourseSubject").
		Preload("CourseSubject.Subject").
		Order("evaluation_plans.date ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *evaluationPlanRepository) Create(ctx context.Context, plan *models.EvaluationPlan) error {
	return dbFromContext(ctx, r.db).Create(plan).Error
}
