package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
	"github.com/academico-latam/academico-api/internal/token"
)

func setupAuthService(t *testing.T) (AuthService, *token.Service) {
	t.Helper()

	db := newTestDB(t, "auth_service")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{
		Email:        "docente@colegio.edu",
		PasswordHash: string(hash),
		FirstName:    "Marta",
		LastName:     "Reyes",
		Role:         models.RoleTeacher,
		Active:       true,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		Email:        "baja@colegio.edu",
		PasswordHash: string(hash),
		FirstName:    "Cuenta",
		LastName:     "Inactiva",
		Role:         models.RoleGuardian,
		Active:       false,
	}).Error)

	tokens := token.NewService("auth-service-test", testLogger())
	svc := NewAuthService(repository.NewUserRepository(db), tokens, testValidator(), testLogger())

	return svc, tokens
}

func TestAuthServiceLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := setupAuthService(t)

	response, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "docente@colegio.edu",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, models.RoleTeacher, response.User.Role)

	claims, err := tokens.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, claims.Subject)
	require.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "docente@colegio.edu",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@colegio.edu",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "baja@colegio.edu",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, ErrUserDisabled)
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}
