package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles. The string values are part of the
// persisted schema and the token wire format and must not change.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRADOR"
	RoleDirector      Role = "DIRECTOR"
	RoleTeacher       Role = "DOCENTE"
	RoleGuardian      Role = "TUTOR"
	RoleStudent       Role = "ESTUDIANTE"
)

// ParseRole validates a raw role value against the closed enum.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	switch role {
	case RoleAdministrator, RoleDirector, RoleTeacher, RoleGuardian, RoleStudent:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

func (r Role) String() string { return string(r) }

// User is an authenticatable account. Role is immutable after provisioning;
// deactivation flips Active instead of deleting the row.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:120;not null" json:"first_name"`
	LastName     string    `gorm:"size:120;not null" json:"last_name"`
	Role         Role      `gorm:"size:32;not null" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	Phone        string    `gorm:"size:40" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
