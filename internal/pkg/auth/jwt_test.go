// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcello-store/storefront-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "storefront-test"
	cfg.JWT.Secret = "test-secret-at-least-32-characters-long"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	return cfg
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager(testConfig())

	t.Run("access token round trip", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(42, "shopper@example.com", false)
		require.NoError(t, err)

		claims, err := manager.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "shopper@example.com", claims.Email)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("refresh token is rejected as access token", func(t *testing.T) {
		token, err := manager.GenerateRefreshToken(42, "shopper@example.com")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)

		claims, err := manager.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("expired token fails validation", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWT.AccessTokenExpiry = -time.Minute
		expired := NewJWTManager(cfg)

		token, err := expired.GenerateAccessToken(42, "shopper@example.com", false)
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("token signed with a different secret fails", func(t *testing.T) {
		other := testConfig()
		other.JWT.Secret = "another-secret-also-32-characters-xx"
		foreign := NewJWTManager(other)

		token, err := foreign.GenerateAccessToken(42, "shopper@example.com", false)
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"missing prefix", "abc.def.ghi", ""},
		{"empty header", "", ""},
		{"prefix only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTokenFromHeader(tt.header))
		})
	}
}
