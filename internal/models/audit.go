package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditRecord is an append-only entry written once per privileged mutation.
// Column and JSON names keep the original persisted shape; rows are never
// updated or deleted.
type AuditRecord struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Action    string            `gorm:"column:accion;size:64;not null;index" json:"accion"`
	Details   string            `gorm:"column:detalles;type:text" json:"detalles"`
	UserID    string            `gorm:"column:usuario_id;size:36;not null;index" json:"usuarioId"`
	User      User              `gorm:"foreignKey:UserID" json:"usuario,omitempty"`
	IPAddress string            `gorm:"column:ip_address;size:64" json:"ipAddress"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"column:fecha_hora;index" json:"fechaHora"`
}

// TableName keeps the audit trail in the table the reporting surface reads.
func (AuditRecord) TableName() string { return "registros_auditoria" }

func (r *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
