package dto

import (
	"time"

	"github.com/academico-latam/academico-api/internal/models"
)

// LoginRequest carries the credential pair for session establishment.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse returns the signed token together with the account snapshot.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse serializes an account without its credential material.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	Active    bool        `json:"active"`
	Phone     string      `json:"phone,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Active:    user.Active,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}
