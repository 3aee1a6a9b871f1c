package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	StudentProfileID string
	CourseSubjectID  string
	Status           string
	From             *time.Time
	Until            *time.Time
	Limit            int
}

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	CreateBatch(ctx context.Context, records []models.Attendance) error
	List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
	ListByTeacher(ctx context.Context, teacherProfileID string, filter AttendanceFilter) ([]models.Attendance, error)
	CountSince(ctx context.Context, since time.Time) (total, present int64, err error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, records []models.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).Create(&records).Error
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	query := r.applyFilter(dbFromContext(ctx, r.db), filter)

	var records []models.Attendance
	err := query.
		Preload("CourseSubject").
		Preload("CourseSubject.Subject").
		Preload("CourseSubject.Course").
		Order("attendances.date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) ListByTeacher(ctx context.Context, teacherProfileID string, filter AttendanceFilter) ([]models.Attendance, error) {
	query := r.applyFilter(dbFromContext(ctx, r.db), filter).
		Joins("JOIN course_subjects ON course_subjects.id = attendances.course_subject_id").
		Where("course_subjects.teacher_id = ?", teacherProfileID)

	var records []models.Attendance
	err := query.
		Preload("Student").
		Preload("Student.User").
		Preload("CourseSubject").
		Preload("CourseSubject.Subject").
		Preload("CourseSubject.Course").
		Order("attendances.date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	db := dbFromContext(ctx, r.db).Model(&models.Attendance{})

	var total int64
	if err := db.Where("date >= ?", since).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var present int64
	err := dbFromContext(ctx, r.db).
		Model(&models.Attendance{}).
		Where("date >= ? AND status = ?", since, models.AttendancePresent).
		Count(&present).Error
	if err != nil {
		return 0, 0, err
	}

	return total, present, nil
}

func (r *attendanceRepository) applyFilter(query *gorm.DB, filter AttendanceFilter) *gorm.DB {
	if filter.StudentProfileID != "" {
		query = query.Where("attendances.student_id = ?", filter.StudentProfileID)
	}
	if filter.CourseSubjectID != "" {
		query = query.Where("attendances.course_subject_id = ?", filter.CourseSubjectID)
	}
	if filter.Status != "" {
		query = query.Where("attendances.status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("attendances.date >= ?", *filter.From)
	}
	if filter.Until != nil {
		query = query.Where("attendances.date <= ?", *filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	return query.Limit(limit)
}
