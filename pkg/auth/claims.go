package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/pvsmart/pvsmart-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Role   enums.Role
	Name   string
	Email  string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID int64      `json:"user_id"`
	Role   enums.Role `json:"role"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	jwt.RegisteredClaims
}
