package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/class-reporter/internal/config"
)

func newJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := newJWTService()
	clientID := uuid.New()

	token, err := service.GenerateToken(clientID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, clientID, claims.GetClientID())
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	service := newJWTService()

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1})
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestRoutes_RequireAuthWhenConfigured(t *testing.T) {
	s := newTestServer(&stubLLM{response: envelopeJSON})
	s.jwtService = newJWTService()

	body := `{"markdown":"# Heading"}`

	// No token: rejected.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/reports/preview", strings.NewReader(body))
	s.routes().ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid bearer token: accepted.
	token, err := s.jwtService.GenerateToken(uuid.New())
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/reports/preview", strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer "+token)
	s.routes().ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// Reads stay open; without an archive the list endpoint reports 503,
	// not 401.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/reports", nil)
	s.routes().ServeHTTP(w, r)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Health stays open.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/health", nil)
	s.routes().ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
