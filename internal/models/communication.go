package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a calendar entry, school-wide when CourseID is nil.
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	CourseID    *string   `gorm:"size:36;index" json:"course_id,omitempty"`
	Course      *Course   `json:"course,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Communication is an institutional message addressed to one user, one
// course, or everybody when both targets are nil.
type Communication struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Urgent      bool      `gorm:"not null;default:false" json:"urgent"`
	SenderID    string    `gorm:"size:36;not null;index" json:"sender_id"`
	RecipientID *string   `gorm:"size:36;index" json:"recipient_id,omitempty"`
	CourseID    *string   `gorm:"size:36;index" json:"course_id,omitempty"`
	SentAt      time.Time `gorm:"autoCreateTime" json:"sent_at"`
}

func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CourseMessage is a note a teacher posts to a whole course.
type CourseMessage struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CourseID  string         `gorm:"size:36;not null;index" json:"course_id"`
	Course    Course         `json:"course,omitempty"`
	TeacherID string         `gorm:"size:36;not null;index" json:"teacher_id"`
	Teacher   TeacherProfile `json:"teacher,omitempty"`
	Type      string         `gorm:"size:40" json:"type,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	SentAt    time.Time      `gorm:"autoCreateTime" json:"sent_at"`
}

func (m *CourseMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
