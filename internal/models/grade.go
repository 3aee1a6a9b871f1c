package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grade is one student's score for an evaluation plan. At most one grade per
// (student, plan); recording again overwrites score and feedback.
type Grade struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	Score            float64        `gorm:"not null" json:"score"`
	Feedback         string         `gorm:"type:text" json:"feedback,omitempty"`
	StudentID        string         `gorm:"size:36;not null;index:idx_student_plan,unique" json:"student_id"`
	Student          StudentProfile `json:"student,omitempty"`
	EvaluationPlanID string         `gorm:"size:36;not null;index:idx_student_plan,unique" json:"evaluation_plan_id"`
	EvaluationPlan   EvaluationPlan `json:"evaluation_plan,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (g *Grade) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
