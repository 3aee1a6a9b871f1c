package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// ProfileRepository resolves role profiles and the guardianship edge. Scope
// resolution depends exclusively on this interface.
type ProfileRepository interface {
	GetStudentByUserID(ctx context.Context, userID string) (models.StudentProfile, error)
	GetStudentByID(ctx context.Context, id string) (models.StudentProfile, error)
	GetTeacherByUserID(ctx context.Context, userID string) (models.TeacherProfile, error)
	GetTeacherByID(ctx context.Context, id string) (models.TeacherProfile, error)
	GetGuardianByUserID(ctx context.Context, userID string) (models.GuardianProfile, error)
	GuardianshipExists(ctx context.Context, guardianProfileID, studentProfileID string) (bool, error)
	ListGuardianStudents(ctx context.Context, guardianProfileID string) ([]models.StudentProfile, error)
	AssignStudentCourse(ctx context.Context, studentProfileID, courseID string) error
	ListStudentsByCourse(ctx context.Context, courseID string) ([]models.StudentProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository instantiates a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetStudentByUserID(ctx context.Context, userID string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := dbFromContext(ctx, r.db).
		Preload("User").
		Preload("Course").
		Preload("Course.Level").
		Preload("Course.AcademicYear").
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) GetStudentByID(ctx context.Context, id string) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := dbFromContext(ctx, r.db).Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) GetTeacherByUserID(ctx context.Context, userID string) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	if err := dbFromContext(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return models.TeacherProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) GetTeacherByID(ctx context.Context, id string) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	if err := dbFromContext(ctx, r.db).Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		return models.TeacherProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) GetGuardianByUserID(ctx context.Context, userID string) (models.GuardianProfile, error) {
	var profile models.GuardianProfile
	if err := dbFromContext(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return models.GuardianProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) GuardianshipExists(ctx context.Context, guardianProfileID, studentProfileID string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).
		Table("guardianships").
		Where("guardian_profile_id = ? AND student_profile_id = ?", guardianProfileID, studentProfileID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *profileRepository) ListGuardianStudents(ctx context.Context, guardianProfileID string) ([]models.StudentProfile, error) {
	var guardian models.GuardianProfile
	err := dbFromContext(ctx, r.db).
		Preload("Students").
		Preload("Students.User").
		Preload("Students.Course").
		Preload("Students.Course.Level").
		Preload("Students.Course.AcademicYear").
		First(&guardian, "id = ?", guardianProfileID).Error
	if err != nil {
		return nil, err
	}

	return guardian.Students, nil
}

func (r *profileRepository) AssignStudentCourse(ctx context.Context, studentProfileID, courseID string) error {
	result := dbFromContext(ctx, r.db).
		Model(&models.StudentProfile{}).
		Where("id = ?", studentProfileID).
		Update("course_id", courseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) ListStudentsByCourse(ctx context.Context, courseID string) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	err := dbFromContext(ctx, r.db).
		Preload("User").
		Where("course_id = ?", courseID).
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}
