package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance status values, persisted as-is.
const (
	AttendancePresent   = "PRESENTE"
	AttendanceAbsent    = "AUSENTE"
	AttendanceLate      = "TARDE"
	AttendanceJustified = "JUSTIFICADO"
)

// Attendance records one student's presence for a course-subject session.
type Attendance struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	StudentID       string         `gorm:"size:36;not null;index" json:"student_id"`
	Student         StudentProfile `json:"student,omitempty"`
	CourseSubjectID string         `gorm:"size:36;not null;index" json:"course_subject_id"`
	CourseSubject   CourseSubject  `json:"course_subject,omitempty"`
	Status          string         `gorm:"size:20;not null" json:"status"`
	Date            time.Time      `gorm:"not null;index" json:"date"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
