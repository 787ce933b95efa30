package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avenues-school/site-api/internal/models"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// AuthConfig defines configuration for the back-office login. There is a
// single administrator principal, configured at deploy time.
type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
}

// AuthService authenticates the administrator and validates issued tokens.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "site-api"
	}
	return &AuthService{validator: validate, logger: logger, config: config}
}

// Login checks the credentials against the configured administrator and
// issues an access token. Wrong email and wrong password produce the same
// answer.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	configured := strings.ToLower(strings.TrimSpace(s.config.AdminEmail))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(configured)) == 1

	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password))
	if !emailOK || passwordErr != nil {
		s.logger.Warn("rejected login attempt", zap.String("email", email))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	now := time.Now().UTC()
	claims := models.AdminClaims{
		Email: configured,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   configured,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	s.logger.Info("administrator logged in", zap.String("email", configured))
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    now,
		Email:       configured,
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
