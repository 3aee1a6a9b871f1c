package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/models"
)

// AuditFilter narrows audit trail queries for the admin reporting surface.
type AuditFilter struct {
	UserID   string
	Action   string
	From     *time.Time
	Until    *time.Time
	Page     int
	PageSize int
}

// AuditRepository persists and queries the append-only audit trail. There is
// deliberately no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, record *models.AuditRecord) error
	List(ctx context.Context, filter AuditFilter) ([]models.AuditRecord, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository instantiates a GORM-backed repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	return dbFromContext(ctx, r.db).Create(record).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]models.AuditRecord, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&models.AuditRecord{})

	if filter.UserID != "" {
		query = query.Where("usuario_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("accion LIKE ?", "%"+filter.Action+"%")
	}
	if filter.From != nil {
		query = query.Where("fecha_hora >= ?", *filter.From)
	}
	if filter.Until != nil {
		query = query.Where("fecha_hora <= ?", *filter.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var records []models.AuditRecord
	err := query.
		Preload("User").
		Order("fecha_hora DESC").
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
