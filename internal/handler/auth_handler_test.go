package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/service"
	"github.com/avenues-school/site-api/pkg/response"
)

func newAuthHandlerForTest(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := service.NewAuthService(validator.New(), zap.NewNop(), service.AuthConfig{
		AdminEmail:        "admin@avenues.edu.in",
		AdminPasswordHash: string(hash),
		TokenSecret:       "test-secret",
		TokenExpiry:       time.Hour,
	})
	return NewAuthHandler(svc)
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := newAuthHandlerForTest(t)

	payload, _ := json.Marshal(models.LoginRequest{Email: "admin@avenues.edu.in", Password: "correct horse"})
	c, w := testContext(t, http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	handler := newAuthHandlerForTest(t)

	payload, _ := json.Marshal(models.LoginRequest{Email: "admin@avenues.edu.in", Password: "nope"})
	c, w := testContext(t, http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "invalid email or password", envelope.Error.Message)
}

func TestAuthHandlerLoginRejectsMalformedBody(t *testing.T) {
	handler := newAuthHandlerForTest(t)

	c, w := testContext(t, http.MethodPost, "/auth/login", []byte(`{"email":`))
	handler.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
