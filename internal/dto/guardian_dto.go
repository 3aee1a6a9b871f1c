package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// ChildResponse lists one linked student from a guardian's viewpoint.
type ChildResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Course    string     `json:"course,omitempty"`
	Level     string     `json:"level,omitempty"`
}

// NewChildResponse converts a linked student profile into a DTO.
func NewChildResponse(student models.StudentProfile) ChildResponse {
	response := ChildResponse{
		ID:        student.ID,
		FirstName: student.User.FirstName,
		LastName:  student.User.LastName,
		BirthDate: student.BirthDate,
	}
	if student.Course != nil {
		response.Course = student.Course.Name
		response.Level = student.Course.Level.Name
	}
	return response
}

// CommunicationResponse serializes an institutional message for its readers.
type CommunicationResponse struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Urgent  bool      `json:"urgent"`
	SentAt  time.Time `json:"sent_at"`
}

// NewCommunicationResponse converts a communication model into a DTO.
func NewCommunicationResponse(communication models.Communication) CommunicationResponse {
	return CommunicationResponse{
		ID:      communication.ID,
		Title:   communication.Title,
		Content: communication.Content,
		Urgent:  communication.Urgent,
		SentAt:  communication.SentAt,
	}
}
