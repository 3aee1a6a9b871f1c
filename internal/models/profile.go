package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectorProfile links a DIRECTOR user to the academic structure.
type DirectorProfile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User      User      `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *DirectorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TeacherProfile is the owning side of teaching assignments.
type TeacherProfile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User      User      `json:"user,omitempty"`
	Specialty string    `gorm:"size:120" json:"specialty,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *TeacherProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// GuardianProfile holds the guardianship edges. A guardian may only reach
// students present in Students.
type GuardianProfile struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User      User             `json:"user,omitempty"`
	Students  []StudentProfile `gorm:"many2many:guardianships" json:"students,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (p *GuardianProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StudentProfile carries the student's enrollment. CourseID nil means the
// student has not been placed in a course yet.
type StudentProfile struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	UserID    string            `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User      User              `json:"user,omitempty"`
	BirthDate *time.Time        `json:"birth_date,omitempty"`
	CourseID  *string           `gorm:"size:36;index" json:"course_id,omitempty"`
	Course    *Course           `json:"course,omitempty"`
	Guardians []GuardianProfile `gorm:"many2many:guardianships" json:"guardians,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
