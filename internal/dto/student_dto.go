package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// StudentProfileResponse is the student's own enrollment snapshot.
type StudentProfileResponse struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Course       string     `json:"course,omitempty"`
	Level        string     `json:"level,omitempty"`
	AcademicYear string     `json:"academic_year,omitempty"`
}

// NewStudentProfileResponse converts a student profile into a DTO.
func NewStudentProfileResponse(student models.StudentProfile) StudentProfileResponse {
	response := StudentProfileResponse{
		ID:        student.ID,
		FirstName: student.User.FirstName,
		LastName:  student.User.LastName,
		Email:     student.User.Email,
		BirthDate: student.BirthDate,
	}
	if student.Course != nil {
		response.Course = student.Course.Name
		response.Level = student.Course.Level.Name
		response.AcademicYear = student.Course.AcademicYear.Name
	}
	return response
}

// AgendaItemResponse is one upcoming entry on the student agenda, either an
// evaluation or a calendar event.
type AgendaItemResponse struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Subject string    `json:"subject,omitempty"`
	Date    time.Time `json:"date"`
}

// AgendaResponse groups the student's upcoming evaluations and events.
type AgendaResponse struct {
	Items []AgendaItemResponse `json:"items"`
}

// CourseMessageResponse serializes a note posted by a teacher to a course.
type CourseMessageResponse struct {
	ID      string    `json:"id"`
	Course  string    `json:"course,omitempty"`
	Teacher string    `json:"teacher,omitempty"`
	Type    string    `json:"type,omitempty"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// NewCourseMessageResponse converts a course message into a DTO.
func NewCourseMessageResponse(message models.CourseMessage) CourseMessageResponse {
	return CourseMessageResponse{
		ID:      message.ID,
		Course:  message.Course.Name,
		Teacher: message.Teacher.User.FirstName + " " + message.Teacher.User.LastName,
		Type:    message.Type,
		Content: message.Content,
		SentAt:  message.SentAt,
	}
}
