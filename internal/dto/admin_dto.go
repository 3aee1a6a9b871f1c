package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta derives the metadata block from a filter and total count.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	if page <= 0 {
		page = 1
	}
	meta := PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total}
	if pageSize > 0 {
		meta.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return meta
}

// UserCreateRequest provisions a new account. Role is set once here and never
// changes afterwards.
type UserCreateRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=120"`
	LastName  string `json:"last_name" validate:"required,min=1,max=120"`
	Role      string `json:"role" validate:"required,oneof=ADMINISTRADOR DIRECTOR DOCENTE TUTOR ESTUDIANTE"`
	Phone     string `json:"phone" validate:"omitempty,max=40"`
}

// UserUpdateRequest patches mutable account fields. Role is deliberately
// absent.
type UserUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=120"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Active    *bool   `json:"active"`
}

// UserListRequest defines filters for listing accounts.
type UserListRequest struct {
	Search   string
	Role     string
	Active   *bool
	Page     int
	PageSize int
}

// UserListResponse wraps a paginated account listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// AuditListRequest defines filters for the audit reporting surface.
type AuditListRequest struct {
	UserID   string
	Action   string
	From     *time.Time
	Until    *time.Time
	Page     int
	PageSize int
}

// AuditRecordResponse serializes one audit trail entry. Field names follow the
// persisted record shape.
type AuditRecordResponse struct {
	ID        string                 `json:"id"`
	Action    string                 `json:"accion"`
	Details   string                 `json:"detalles"`
	UserID    string                 `json:"usuarioId"`
	UserName  string                 `json:"usuarioNombre,omitempty"`
	IPAddress string                 `json:"ipAddress"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"fechaHora"`
}

// AuditListResponse wraps a paginated audit listing.
type AuditListResponse struct {
	Items      []AuditRecordResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// NewAuditRecordResponse converts an audit record into a DTO.
func NewAuditRecordResponse(record models.AuditRecord) AuditRecordResponse {
	response := AuditRecordResponse{
		ID:        record.ID,
		Action:    record.Action,
		Details:   record.Details,
		UserID:    record.UserID,
		IPAddress: record.IPAddress,
		Metadata:  record.Metadata,
		CreatedAt: record.CreatedAt,
	}
	if record.User.ID != "" {
		response.UserName = record.User.FirstName + " " + record.User.LastName
	}
	return response
}
