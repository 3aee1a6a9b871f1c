// Package scope decides whether an authenticated principal's relationship
// edge covers a target entity. Three strategies exist: self (a student's own
// records), guardianship (a guardian reaching a linked student) and teaching
// assignment (a teacher acting on an owned course-subject and the students
// enrolled in its course).
//
// Authorization failures are opaque: ErrScopeViolation is returned whether
// the target is out of scope or does not exist at all, so a rejection never
// discloses a third party's existence.
package scope

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
)

var (
	// ErrProfileNotFound means an authenticated user lacks the profile its
	// role implies. That is a data-integrity problem, not a user error.
	ErrProfileNotFound = errors.New("profile not found for authenticated user")

	// ErrScopeViolation means the relationship edge to the target is absent.
	// Callers must map it to an opaque 403.
	ErrScopeViolation = errors.New("target outside caller scope")

	// ErrStudentOutsideScope means the target student exists but is enrolled
	// in a different course than the assignment being acted on.
	ErrStudentOutsideScope = errors.New("student not enrolled in assignment course")
)

// Resolver performs relationship-scoped authorization checks.
type Resolver struct {
	profiles    repository.ProfileRepository
	assignments repository.CourseSubjectRepository
}

// NewResolver builds a resolver over the profile and assignment stores.
func NewResolver(profiles repository.ProfileRepository, assignments repository.CourseSubjectRepository) *Resolver {
	return &Resolver{profiles: profiles, assignments: assignments}
}

// StudentSelf resolves the caller's own student profile.
func (r *Resolver) StudentSelf(ctx context.Context, userID string) (models.StudentProfile, error) {
	profile, err := r.profiles.GetStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrProfileNotFound
		}
		return models.StudentProfile{}, err
	}

	return profile, nil
}

// TeacherSelf resolves the caller's own teacher profile.
func (r *Resolver) TeacherSelf(ctx context.Context, userID string) (models.TeacherProfile, error) {
	profile, err := r.profiles.GetTeacherByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TeacherProfile{}, ErrProfileNotFound
		}
		return models.TeacherProfile{}, err
	}

	return profile, nil
}

// GuardianSelf resolves the caller's own guardian profile.
func (r *Resolver) GuardianSelf(ctx context.Context, userID string) (models.GuardianProfile, error) {
	profile, err := r.profiles.GetGuardianByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GuardianProfile{}, ErrProfileNotFound
		}
		return models.GuardianProfile{}, err
	}

	return profile, nil
}

// Guardianship verifies that a guardianship edge links the caller to the
// target student. A missing edge and a nonexistent student are deliberately
// indistinguishable.
func (r *Resolver) Guardianship(ctx context.Context, guardianUserID, studentProfileID string) (models.GuardianProfile, error) {
	guardian, err := r.GuardianSelf(ctx, guardianUserID)
	if err != nil {
		return models.GuardianProfile{}, err
	}

	linked, err := r.profiles.GuardianshipExists(ctx, guardian.ID, studentProfileID)
	if err != nil {
		return models.GuardianProfile{}, err
	}
	if !linked {
		return models.GuardianProfile{}, ErrScopeViolation
	}

	return guardian, nil
}

// TeachingAssignment verifies that the caller owns the target assignment and
// returns it. A nonexistent assignment yields the same rejection as one
// owned by another teacher.
func (r *Resolver) TeachingAssignment(ctx context.Context, teacherUserID, assignmentID string) (models.CourseSubject, error) {
	teacher, err := r.TeacherSelf(ctx, teacherUserID)
	if err != nil {
		return models.CourseSubject{}, err
	}

	assignment, err := r.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CourseSubject{}, ErrScopeViolation
		}
		return models.CourseSubject{}, err
	}

	if !r.Owns(teacher, assignment) {
		return models.CourseSubject{}, ErrScopeViolation
	}

	return assignment, nil
}

// Owns reports whether the teacher owns the assignment.
func (r *Resolver) Owns(teacher models.TeacherProfile, assignment models.CourseSubject) bool {
	return assignment.TeacherID != nil && *assignment.TeacherID == teacher.ID
}

// StudentInAssignment verifies that the target student's current enrollment
// points at the assignment's course, and returns the student. Cross-course
// targets are rejected even when both student and assignment exist.
func (r *Resolver) StudentInAssignment(ctx context.Context, assignment models.CourseSubject, studentProfileID string) (models.StudentProfile, error) {
	student, err := r.profiles.GetStudentByID(ctx, studentProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrStudentOutsideScope
		}
		return models.StudentProfile{}, err
	}

	if student.CourseID == nil || *student.CourseID != assignment.CourseID {
		return models.StudentProfile{}, ErrStudentOutsideScope
	}

	return student, nil
}
