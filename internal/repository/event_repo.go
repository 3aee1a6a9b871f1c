package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// EventRepository defines persistence operations for calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	ListForCourse(ctx context.Context, courseID string, from time.Time, until *time.Time, limit int) ([]models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository instantiates a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return dbFromContext(ctx, r.db).Create(event).Error
}

// ListForCourse returns school-wide events plus events scoped to the course.
func (r *eventRepository) ListForCourse(ctx context.Context, courseID string, from time.Time, until *time.Time, limit int) ([]models.Event, error) {
	query := dbFromContext(ctx, r.db).
		Where("date >= ?", from).
		Where("course_id IS NULL OR course_id = ?", courseID)

	if until != nil {
		query = query.Where("date <= ?", *until)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []models.Event
	if err := query.Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
