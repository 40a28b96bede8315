// internal/pkg/auth/credential_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyring(t *testing.T) {
	manager := NewJWTManager(testConfig())

	issue := func(t *testing.T, userID uint) string {
		t.Helper()
		token, err := manager.GenerateAccessToken(userID, "shopper@example.com", false)
		require.NoError(t, err)
		return token
	}

	t.Run("empty keyring reads as logged out", func(t *testing.T) {
		ring := NewKeyring(manager)

		assert.False(t, ring.IsLoggedIn())
		_, ok := ring.CurrentUserID()
		assert.False(t, ok)
	})

	t.Run("valid token reads as logged in with its user id", func(t *testing.T) {
		ring := NewKeyring(manager)
		ring.SetToken(issue(t, 42))

		assert.True(t, ring.IsLoggedIn())
		userID, ok := ring.CurrentUserID()
		require.True(t, ok)
		assert.Equal(t, "42", userID)
	})

	t.Run("expired token reads the same as no token", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWT.AccessTokenExpiry = -time.Minute
		expired, err := NewJWTManager(cfg).GenerateAccessToken(42, "shopper@example.com", false)
		require.NoError(t, err)

		ring := NewKeyring(manager)
		ring.SetToken(expired)

		assert.False(t, ring.IsLoggedIn())
	})

	t.Run("clearing the token logs out and notifies", func(t *testing.T) {
		ring := NewKeyring(manager)

		var changes int
		unsubscribe := ring.Subscribe(func() { changes++ })
		defer unsubscribe()

		ring.SetToken(issue(t, 42))
		ring.ClearToken()

		assert.False(t, ring.IsLoggedIn())
		assert.Equal(t, 2, changes)
	})

	t.Run("re-presenting the held token does not notify", func(t *testing.T) {
		ring := NewKeyring(manager)
		token := issue(t, 42)
		ring.SetToken(token)

		var changes int
		unsubscribe := ring.Subscribe(func() { changes++ })
		defer unsubscribe()

		ring.SetToken(token)
		assert.Equal(t, 0, changes)
	})

	t.Run("unsubscribe stops notifications", func(t *testing.T) {
		ring := NewKeyring(manager)

		var changes int
		unsubscribe := ring.Subscribe(func() { changes++ })
		unsubscribe()

		ring.SetToken(issue(t, 42))
		assert.Equal(t, 0, changes)
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(NewJWTManager(testConfig()))

	a := registry.For("sess-1")
	b := registry.For("sess-1")
	c := registry.For("sess-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	registry.Drop("sess-1")
	assert.NotSame(t, a, registry.For("sess-1"))
}
