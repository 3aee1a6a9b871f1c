package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/token"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike,
	// so a login failure never reveals whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserDisabled rejects logins against deactivated accounts.
	ErrUserDisabled = errors.New("user disabled")
)

// AuthService establishes sessions against stored credentials.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Me(ctx context.Context, userID string) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    *token.Service
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, tokens *token.Service, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !user.Active {
		return dto.LoginResponse{}, ErrUserDisabled
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session established")

	return dto.LoginResponse{
		Token: signed,
		User:  dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
