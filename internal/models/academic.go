package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicYear frames courses in time. At most one year is active; creating
// a new one deactivates the rest.
type AcademicYear struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	Courses   []Course  `json:"courses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (y *AcademicYear) BeforeCreate(tx *gorm.DB) error {
	if y.ID == "" {
		y.ID = uuid.NewString()
	}
	return nil
}

// Level is a grade level (e.g. primary, secondary).
type Level struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:120;not null" json:"name"`
}

func (l *Level) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Course groups enrolled students within a level and academic year.
type Course struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	Name           string           `gorm:"size:120;not null" json:"name"`
	LevelID        string           `gorm:"size:36;not null" json:"level_id"`
	Level          Level            `json:"level,omitempty"`
	AcademicYearID string           `gorm:"size:36;not null" json:"academic_year_id"`
	AcademicYear   AcademicYear     `json:"academic_year,omitempty"`
	Students       []StudentProfile `json:"students,omitempty"`
	Subjects       []CourseSubject  `json:"subjects,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Subject is a taught discipline, bound to courses through CourseSubject.
type Subject struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CourseSubject is the teaching assignment edge: a (course, subject) pair
// optionally owned by a teacher. A teacher may create plans, grades and
// attendance only on assignments they own.
type CourseSubject struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	CourseID  string           `gorm:"size:36;not null;index:idx_course_subject,unique" json:"course_id"`
	Course    Course           `json:"course,omitempty"`
	SubjectID string           `gorm:"size:36;not null;index:idx_course_subject,unique" json:"subject_id"`
	Subject   Subject          `json:"subject,omitempty"`
	TeacherID *string          `gorm:"size:36;index" json:"teacher_id,omitempty"`
	Teacher   *TeacherProfile  `json:"teacher,omitempty"`
	Plans     []EvaluationPlan `json:"plans,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (cs *CourseSubject) BeforeCreate(tx *gorm.DB) error {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	return nil
}

// EvaluationPlan is a graded activity announced by the owning teacher.
type EvaluationPlan struct {
	ID              string        `gorm:"primaryKey;size:36" json:"id"`
	Title           string        `gorm:"size:255;not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description,omitempty"`
	Weight          float64       `gorm:"not null" json:"weight"`
	Date            *time.Time    `json:"date,omitempty"`
	CourseSubjectID string        `gorm:"size:36;not null;index" json:"course_subject_id"`
	CourseSubject   CourseSubject `json:"course_subject,omitempty"`
	Grades          []Grade       `json:"grades,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (p *EvaluationPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
