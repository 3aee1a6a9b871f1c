package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/observability"
	"github.com/academico-latam/academico-api/internal/repository"
)

// Audit action identifiers. Persisted verbatim; reporting queries filter on
// them.
const (
	AuditActionCreateUser        = "CREAR_USUARIO"
	AuditActionUpdateUser        = "ACTUALIZAR_USUARIO"
	AuditActionCreateCourse      = "CREAR_CURSO"
	AuditActionCreateSubject     = "CREAR_MATERIA"
	AuditActionAssignTeacher     = "ASIGNAR_DOCENTE"
	AuditActionAssignStudent     = "ASIGNAR_ESTUDIANTE_CURSO"
	AuditActionCreateYear        = "CREAR_ANO_ACADEMICO"
	AuditActionCreateEvent       = "CREAR_EVENTO"
	AuditActionSendCommunication = "ENVIAR_COMUNICACION"
	AuditActionCreatePlan        = "CREAR_PLAN_EVALUACION"
	AuditActionRecordGrade       = "REGISTRAR_CALIFICACION"
	AuditActionRecordAttendance  = "REGISTRAR_ASISTENCIA"
)

// AuditEntry describes one privileged mutation to be written to the trail.
type AuditEntry struct {
	Action    string
	Details   string
	UserID    string
	IPAddress string
	Metadata  map[string]interface{}
}

// AuditRecorder appends entries to the audit trail. Mutating services call it
// inside the same transaction as the mutation itself, so a write failure
// rolls the mutation back rather than leaving it unaudited.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditService writes and reads the append-only audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, request dto.AuditListRequest) (dto.AuditListResponse, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	record := models.AuditRecord{
		Action:    entry.Action,
		Details:   entry.Details,
		UserID:    entry.UserID,
		IPAddress: entry.IPAddress,
	}
	if len(entry.Metadata) > 0 {
		record.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to append audit record")
		return err
	}

	observability.AuditRecords().WithLabelValues(entry.Action).Inc()
	return nil
}

func (s *auditService) List(ctx context.Context, request dto.AuditListRequest) (dto.AuditListResponse, error) {
	pageSize := request.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	records, total, err := s.repo.List(ctx, repository.AuditFilter{
		UserID:   request.UserID,
		Action:   request.Action,
		From:     request.From,
		Until:    request.Until,
		Page:     request.Page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	items := make([]dto.AuditRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewAuditRecordResponse(record))
	}

	return dto.AuditListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(request.Page, pageSize, total),
	}, nil
}
