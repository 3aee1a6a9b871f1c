package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the account email collides with an existing one.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound indicates the account was not located.
	ErrUserNotFound = errors.New("user not found")
)

// Actor identifies the authenticated principal driving a mutation, for the
// audit trail.
type Actor struct {
	UserID    string
	Role      models.Role
	IPAddress string
}

// AdminService covers account provisioning and the audit reporting surface.
type AdminService interface {
	CreateUser(ctx context.Context, payload dto.UserCreateRequest, actor Actor) (dto.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, payload dto.UserUpdateRequest, actor Actor) (dto.UserResponse, error)
	ListUsers(ctx context.Context, request dto.UserListRequest) (dto.UserListResponse, error)
	GetUser(ctx context.Context, userID string) (dto.UserResponse, error)
	ListAuditRecords(ctx context.Context, request dto.AuditListRequest) (dto.AuditListResponse, error)
}

type adminService struct {
	users     repository.UserRepository
	tx        repository.TxManager
	audit     AuditService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(users repository.UserRepository, tx repository.TxManager, audit AuditService, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		users:     users,
		tx:        tx,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) CreateUser(ctx context.Context, payload dto.UserCreateRequest, actor Actor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role, err := models.ParseRole(payload.Role)
	if err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		Role:         role,
		Active:       true,
		Phone:        strings.TrimSpace(payload.Phone),
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, &user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionCreateUser,
			Details:   fmt.Sprintf("cuenta creada: %s (%s)", user.Email, user.Role),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"created_user_id": user.ID, "role": string(user.Role)},
		})
	})
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account provisioned")

	return dto.NewUserResponse(user), nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, payload dto.UserUpdateRequest, actor Actor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	var user models.User
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if payload.FirstName != nil {
			user.FirstName = strings.TrimSpace(*payload.FirstName)
		}
		if payload.LastName != nil {
			user.LastName = strings.TrimSpace(*payload.LastName)
		}
		if payload.Phone != nil {
			user.Phone = strings.TrimSpace(*payload.Phone)
		}
		if payload.Active != nil {
			user.Active = *payload.Active
		}

		if err := s.users.Update(ctx, &user); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			Action:    AuditActionUpdateUser,
			Details:   fmt.Sprintf("cuenta actualizada: %s", user.Email),
			UserID:    actor.UserID,
			IPAddress: actor.IPAddress,
			Metadata:  map[string]interface{}{"updated_user_id": user.ID, "active": user.Active},
		})
	})
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *adminService) ListUsers(ctx context.Context, request dto.UserListRequest) (dto.UserListResponse, error) {
	pageSize := request.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	filter := repository.UserFilter{
		Search:   request.Search,
		Active:   request.Active,
		Page:     request.Page,
		PageSize: pageSize,
	}
	if request.Role != "" {
		role, err := models.ParseRole(request.Role)
		if err != nil {
			return dto.UserListResponse{}, err
		}
		filter.Role = &role
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(request.Page, pageSize, total),
	}, nil
}

func (s *adminService) GetUser(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *adminService) ListAuditRecords(ctx context.Context, request dto.AuditListRequest) (dto.AuditListResponse, error) {
	return s.audit.List(ctx, request)
}
