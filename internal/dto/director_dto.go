package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// CourseCreateRequest registers a course inside a level and academic year.
type CourseCreateRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=120"`
	LevelID        string `json:"level_id" validate:"required,uuid4"`
	AcademicYearID string `json:"academic_year_id" validate:"required,uuid4"`
}

// CourseResponse serializes a course with its level and year context.
type CourseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Level        string    `json:"level,omitempty"`
	AcademicYear string    `json:"academic_year,omitempty"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCourseResponse converts a course model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID,
		Name:         course.Name,
		Level:        course.Level.Name,
		AcademicYear: course.AcademicYear.Name,
		StudentCount: len(course.Students),
		CreatedAt:    course.CreatedAt,
	}
}

// SubjectCreateRequest registers a taught discipline.
type SubjectCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// AssignTeacherRequest binds a teacher to a (course, subject) pair, creating
// the pair when it does not exist yet.
type AssignTeacherRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid4"`
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
	TeacherID string `json:"teacher_id" validate:"required,uuid4"`
}

// AssignStudentRequest places a student into a course, replacing any previous
// placement.
type AssignStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	CourseID  string `json:"course_id" validate:"required,uuid4"`
}

// AcademicYearCreateRequest opens a new academic year. The new year becomes
// the only active one.
type AcademicYearCreateRequest struct {
	Name      string    `json:"name" validate:"required,min=1,max=120"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// EventCreateRequest schedules a calendar event, school-wide when CourseID is
// omitted.
type EventCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"omitempty,max=4000"`
	Date        time.Time `json:"date" validate:"required"`
	CourseID    *string   `json:"course_id" validate:"omitempty,uuid4"`
}

// CommunicationCreateRequest sends an institutional message to a single user,
// a course, or everybody when both targets are omitted.
type CommunicationCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Content     string  `json:"content" validate:"required,min=1"`
	Urgent      bool    `json:"urgent"`
	RecipientID *string `json:"recipient_id" validate:"omitempty,uuid4"`
	CourseID    *string `json:"course_id" validate:"omitempty,uuid4"`
}

// SupervisionGradeRequest filters the cross-course grade listing available to
// directors.
type SupervisionGradeRequest struct {
	CourseID  string
	SubjectID string
	Limit     int
}

// DashboardResponse aggregates institution-wide counters for the director
// landing page.
type DashboardResponse struct {
	Students       int64           `json:"students"`
	Teachers       int64           `json:"teachers"`
	Courses        int64           `json:"courses"`
	AttendanceRate float64         `json:"attendance_rate"`
	ActiveYears    []DashboardYear `json:"active_years"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// DashboardYear summarises one active academic year for the dashboard.
type DashboardYear struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Courses  int    `json:"courses"`
	Students int    `json:"students"`
}

// NewDashboardYear flattens an academic year with preloaded courses.
func NewDashboardYear(year models.AcademicYear) DashboardYear {
	students := 0
	for _, course := range year.Courses {
		students += len(course.Students)
	}
	return DashboardYear{
		ID:       year.ID,
		Name:     year.Name,
		Courses:  len(year.Courses),
		Students: students,
	}
}
