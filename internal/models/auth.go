package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest is the back-office login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Email       string    `json:"email"`
}

// AdminClaims are the JWT claims for the single back-office principal.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
