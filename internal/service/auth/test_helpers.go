package auth

import (
	"testing"

	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns an auth configuration suitable for tests.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 60,
	}
}

// RequireTestJWTService creates a JWT service from DefaultJWTConfig.
func RequireTestJWTService(t testing.TB) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "failed to create test JWT service")
	return svc
}
