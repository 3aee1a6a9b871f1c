package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// CommunicationRepository defines persistence operations for institutional
// messages and course messages.
type CommunicationRepository interface {
	Create(ctx context.Context, communication *models.Communication) error
	ListForRecipient(ctx context.Context, userID string, courseIDs []string, limit int) ([]models.Communication, error)
	ListCourseMessages(ctx context.Context, courseIDs []string, messageType string, limit int) ([]models.CourseMessage, error)
}

type communicationRepository struct {
	db *gorm.DB
}

// NewCommunicationRepository instantiates a GORM-backed repository.
func NewCommunicationRepository(db *gorm.DB) CommunicationRepository {
	return &communicationRepository{db: db}
}

func (r *communicationRepository) Create(ctx context.Context, communication *models.Communication) error {
	return dbFromContext(ctx, r.db).Create(communication).Error
}

func (r *communicationRepository) ListForRecipient(ctx context.Context, userID string, courseIDs []string, limit int) ([]models.Communication, error) {
	query := dbFromContext(ctx, r.db)

	if len(courseIDs) > 0 {
		query = query.Where("recipient_id = ? OR course_id IN ?", userID, courseIDs)
	} else {
		query = query.Where("recipient_id = ?", userID)
	}
	if limit <= 0 {
		limit = 50
	}

	var communications []models.Communication
	err := query.Order("sent_at DESC").Limit(limit).Find(&communications).Error
	if err != nil {
		return nil, err
	}

	return communications, nil
}

func (r *communicationRepository) ListCourseMessages(ctx context.Context, courseIDs []string, messageType string, limit int) ([]models.CourseMessage, error) {
	if len(courseIDs) == 0 {
		return []models.CourseMessage{}, nil
	}

	query := dbFromContext(ctx, r.db).Where("course_id IN ?", courseIDs)
	if messageType != "" {
		query = query.Where("type = ?", messageType)
	}
	if limit <= 0 {
		limit = 50
	}

	var messages []models.CourseMessage
	err := query.
		Preload("Teacher").
		Preload("Teacher.User").
		Preload("Course").
		Order("sent_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
