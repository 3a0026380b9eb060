package auth

import (
	"github.com/lmartinelli/tienda-backend/internal/users"
	"github.com/lmartinelli/tienda-backend/pkg/types"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required for creating an account.
// Role is never client-supplied; public registration always yields a
// regular user.
type RegisterRequest struct {
	Name     string         `json:"name" validate:"required,max=120"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Address  *types.Address `json:"address,omitempty"`
}

// AuthResponse contains the token and user produced by a successful
// login or registration.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
