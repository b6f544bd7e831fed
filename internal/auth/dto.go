package auth

import "github.com/pvsmart/pvsmart-backend/internal/users"

// RegisterRequest contains the payload required for creating an account.
// Role is never client-supplied; ownership comes from the configured
// allowlist.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed token and the user profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        users.UserView `json:"user"`
}
