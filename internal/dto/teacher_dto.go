package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// AssignmentResponse serializes one teaching assignment for the owning
// teacher's workload listing.
type AssignmentResponse struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	Course    string `json:"course,omitempty"`
	SubjectID string `json:"subject_id"`
	Subject   string `json:"subject,omitempty"`
	Students  int    `json:"students"`
}

// NewAssignmentResponse converts a course-subject model into a DTO.
func NewAssignmentResponse(assignment models.CourseSubject) AssignmentResponse {
	return AssignmentResponse{
		ID:        assignment.ID,
		CourseID:  assignment.CourseID,
		Course:    assignment.Course.Name,
		SubjectID: assignment.SubjectID,
		Subject:   assignment.Subject.Name,
		Students:  len(assignment.Course.Students),
	}
}

// CourseStudentResponse lists one enrolled student for roster views.
type CourseStudentResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NewCourseStudentResponse converts a student profile into a roster entry.
func NewCourseStudentResponse(student models.StudentProfile) CourseStudentResponse {
	return CourseStudentResponse{
		ID:        student.ID,
		FirstName: student.User.FirstName,
		LastName:  student.User.LastName,
		Email:     student.User.Email,
	}
}

// EvaluationPlanCreateRequest announces a graded activity on an owned
// assignment.
type EvaluationPlanCreateRequest struct {
	CourseSubjectID string     `json:"course_subject_id" validate:"required,uuid4"`
	Title           string     `json:"title" validate:"required,min=1,max=255"`
	Description     string     `json:"description" validate:"omitempty,max=4000"`
	Weight          float64    `json:"weight" validate:"required,gt=0,lte=100"`
	Date            *time.Time `json:"date"`
}

// EvaluationPlanResponse serializes a plan with its assignment context.
type EvaluationPlanResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Weight          float64    `json:"weight"`
	Date            *time.Time `json:"date,omitempty"`
	CourseSubjectID string     `json:"course_subject_id"`
	Course          string     `json:"course,omitempty"`
	Subject         string     `json:"subject,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewEvaluationPlanResponse converts a plan model into a DTO.
func NewEvaluationPlanResponse(plan models.EvaluationPlan) EvaluationPlanResponse {
	return EvaluationPlanResponse{
		ID:              plan.ID,
		Title:           plan.Title,
		Description:     plan.Description,
		Weight:          plan.Weight,
		Date:            plan.Date,
		CourseSubjectID: plan.CourseSubjectID,
		Course:          plan.CourseSubject.Course.Name,
		Subject:         plan.CourseSubject.Subject.Name,
		CreatedAt:       plan.CreatedAt,
	}
}

// GradeRecordRequest writes or overwrites one student's score for a plan.
type GradeRecordRequest struct {
	StudentID        string  `json:"student_id" validate:"required,uuid4"`
	EvaluationPlanID string  `json:"evaluation_plan_id" validate:"required,uuid4"`
	Score            float64 `json:"score" validate:"gte=0,lte=100"`
	Feedback         string  `json:"feedback" validate:"omitempty,max=4000"`
}

// GradeResponse serializes one recorded grade.
type GradeResponse struct {
	ID               string    `json:"id"`
	StudentID        string    `json:"student_id"`
	EvaluationPlanID string    `json:"evaluation_plan_id"`
	Plan             string    `json:"plan,omitempty"`
	Score            float64   `json:"score"`
	Feedback         string    `json:"feedback,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewGradeResponse converts a grade model into a DTO.
func NewGradeResponse(grade models.Grade) GradeResponse {
	return GradeResponse{
		ID:               grade.ID,
		StudentID:        grade.StudentID,
		EvaluationPlanID: grade.EvaluationPlanID,
		Plan:             grade.EvaluationPlan.Title,
		Score:            grade.Score,
		Feedback:         grade.Feedback,
		UpdatedAt:        grade.UpdatedAt,
	}
}

// AttendanceEntry is one student's status inside a batch registration.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required,uuid4"`
	Status    string `json:"status" validate:"required,oneof=PRESENTE AUSENTE TARDE JUSTIFICADO"`
}

// AttendanceBatchRequest registers attendance for a session of an owned
// assignment.
type AttendanceBatchRequest struct {
	CourseSubjectID string            `json:"course_subject_id" validate:"required,uuid4"`
	Date            time.Time         `json:"date" validate:"required"`
	Entries         []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceResponse serializes one attendance record.
type AttendanceResponse struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	CourseSubjectID string    `json:"course_subject_id"`
	Status          string    `json:"status"`
	Date            time.Time `json:"date"`
}

// NewAttendanceResponse converts an attendance model into a DTO.
func NewAttendanceResponse(attendance models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:              attendance.ID,
		StudentID:       attendance.StudentID,
		CourseSubjectID: attendance.CourseSubjectID,
		Status:          attendance.Status,
		Date:            attendance.Date,
	}
}
