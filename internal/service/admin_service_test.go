package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/academico-latam/academico-api/internal/dto"
	"github.com/academico-latam/academico-api/internal/models"
	"github.com/academico-latam/academico-api/internal/repository"
)

func setupAdminService(t *testing.T) (AdminService, AuditService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t, "admin_service")
	audit := NewAuditService(repository.NewAuditRepository(db), testLogger())
	svc := NewAdminService(repository.NewUserRepository(db), repository.NewTxManager(db), audit, testValidator(), testLogger())

	return svc, audit, db
}

func adminActor() Actor {
	return Actor{UserID: "admin-1", Role: models.RoleAdministrator, IPAddress: "10.0.0.1"}
}

func TestAdminServiceCreateUserHashesPasswordAndAudits(t *testing.T) {
	svc, _, db := setupAdminService(t)

	created, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Email:     "Nuevo@Colegio.edu",
		Password:  "super-secreta",
		FirstName: "Nuevo",
		LastName:  "Usuario",
		Role:      "DOCENTE",
	}, adminActor())
	require.NoError(t, err)
	require.Equal(t, "nuevo@colegio.edu", created.Email)
	require.Equal(t, models.RoleTeacher, created.Role)
	require.True(t, created.Active)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.NotEqual(t, "super-secreta", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("super-secreta")))

	var records []models.AuditRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, AuditActionCreateUser, records[0].Action)
	require.Equal(t, "admin-1", records[0].UserID)
	require.Equal(t, "10.0.0.1", records[0].IPAddress)
}

func TestAdminServiceCreateUserDuplicateEmail(t *testing.T) {
	svc, _, db := setupAdminService(t)

	payload := dto.UserCreateRequest{
		Email:     "repetido@colegio.edu",
		Password:  "super-secreta",
		FirstName: "Uno",
		LastName:  "Dos",
		Role:      "TUTOR",
	}
	_, err := svc.CreateUser(context.Background(), payload, adminActor())
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), payload, adminActor())
	require.ErrorIs(t, err, ErrEmailTaken)

	// The failed attempt must not leave an audit record behind.
	var count int64
	require.NoError(t, db.Model(&models.AuditRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAdminServiceCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _, _ := setupAdminService(t)

	_, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Email:     "x@colegio.edu",
		Password:  "super-secreta",
		FirstName: "X",
		LastName:  "Y",
		Role:      "SUPERUSUARIO",
	}, adminActor())
	require.Error(t, err)
}

func TestAdminServiceUpdateUserKeepsRole(t *testing.T) {
	svc, _, db := setupAdminService(t)

	created, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Email:     "perfil@colegio.edu",
		Password:  "super-secreta",
		FirstName: "Antes",
		LastName:  "Cambio",
		Role:      "ESTUDIANTE",
	}, adminActor())
	require.NoError(t, err)

	newName := "Despues"
	inactive := false
	updated, err := svc.UpdateUser(context.Background(), created.ID, dto.UserUpdateRequest{
		FirstName: &newName,
		Active:    &inactive,
	}, adminActor())
	require.NoError(t, err)
	require.Equal(t, "Despues", updated.FirstName)
	require.False(t, updated.Active)
	require.Equal(t, models.RoleStudent, updated.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, models.RoleStudent, stored.Role)
}

func TestAdminServiceUpdateUserNotFound(t *testing.T) {
	svc, _, _ := setupAdminService(t)

	name := "Nadie"
	_, err := svc.UpdateUser(context.Background(), "missing-id", dto.UserUpdateRequest{FirstName: &name}, adminActor())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminServiceListUsersFiltersByRole(t *testing.T) {
	svc, _, _ := setupAdminService(t)

	for _, seed := range []struct {
		email string
		role  string
	}{
		{"a@colegio.edu", "DOCENTE"},
		{"b@colegio.edu", "DOCENTE"},
		{"c@colegio.edu", "TUTOR"},
	} {
		_, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
			Email:     seed.email,
			Password:  "super-secreta",
			FirstName: "F",
			LastName:  "L",
			Role:      seed.role,
		}, adminActor())
		require.NoError(t, err)
	}

	response, err := svc.ListUsers(context.Background(), dto.UserListRequest{Role: "DOCENTE"})
	require.NoError(t, err)
	require.Len(t, response.Items, 2)
	require.EqualValues(t, 2, response.Pagination.TotalItems)
	for _, item := range response.Items {
		require.Equal(t, models.RoleTeacher, item.Role)
	}
}

func TestAdminServiceListAuditRecordsFiltersByAction(t *testing.T) {
	svc, audit, _ := setupAdminService(t)

	_, err := svc.CreateUser(context.Background(), dto.UserCreateRequest{
		Email:     "auditoria@colegio.edu",
		Password:  "super-secreta",
		FirstName: "A",
		LastName:  "B",
		Role:      "DIRECTOR",
	}, adminActor())
	require.NoError(t, err)

	require.NoError(t, audit.Record(context.Background(), AuditEntry{
		Action:  AuditActionCreateCourse,
		Details: "curso creado",
		UserID:  "director-1",
	}))

	response, err := svc.ListAuditRecords(context.Background(), dto.AuditListRequest{Action: AuditActionCreateCourse})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, AuditActionCreateCourse, response.Items[0].Action)
}
