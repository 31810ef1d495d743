package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()

	tests := []struct {
		name              string
		authHeader        string
		validateErr       error
		expectedStatus    int
		expectedLearnerID uuid.UUID
	}{
		{
			name:              "valid token",
			authHeader:        "Bearer valid-token",
			expectedStatus:    http.StatusOK,
			expectedLearnerID: learnerID,
		},
		{
			name:              "lower case scheme",
			authHeader:        "bearer valid-token",
			expectedStatus:    http.StatusOK,
			expectedLearnerID: learnerID,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "basic scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped wrong token type",
			authHeader:     "Bearer refresh-token",
			validateErr:    errors.Join(auth.ErrWrongTokenType, errors.New("typ=refresh")),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer valid-token",
			validateErr:    errors.New("key store unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := auth.NewMockJWTService(learnerID).WithValidationError(tt.validateErr)
			mw := NewAuthMiddleware(jwtService)

			var captured uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetLearnerID(r)
				require.True(t, ok)
				captured = id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLearnerID, captured)
		})
	}
}

func TestGetLearnerIDMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, ok := GetLearnerID(req)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}

func TestAuthenticateWithRealTokens(t *testing.T) {
	t.Parallel()

	jwtService := auth.RequireTestJWTService(t)
	learnerID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), learnerID)
	require.NoError(t, err)

	var captured uuid.UUID
	handler := NewAuthMiddleware(jwtService).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetLearnerID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, learnerID, captured)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token+"tampered")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
