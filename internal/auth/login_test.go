package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTokenManager_GetToken(t *testing.T) {
	t.Run("returns existing valid token", func(t *testing.T) {
		manager := NewLoginTokenManager(&LoginConfig{})
		manager.store.Set(&Token{
			AccessToken: "existing-token",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "existing-token", token)
	})

	t.Run("logs in with credentials", func(t *testing.T) {
		logins := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logins++

			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string

			err := json.NewDecoder(r.Body).Decode(&body)
			require.NoError(t, err)
			assert.Equal(t, "inspector", body["username"])
			assert.Equal(t, "secret", body["password"])

			response := map[string]interface{}{
				"data": map[string]string{"token": "fresh-token"},
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		manager := NewLoginTokenManager(&LoginConfig{
			LoginURL: server.URL + "/auth/login",
			Username: "inspector",
			Password: "secret",
		})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)

		// Second call is served from the cached token
		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)
		assert.Equal(t, 1, logins)
	})

	t.Run("handles login error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			response := map[string]interface{}{
				"errorCode": 401,
				"message":   "Invalid credentials",
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		manager := NewLoginTokenManager(&LoginConfig{
			LoginURL: server.URL + "/auth/login",
			Username: "inspector",
			Password: "wrong",
		})

		token, err := manager.GetToken(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid credentials")
		assert.Equal(t, "", token)
	})

	t.Run("missing token in response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			response := map[string]interface{}{
				"data": map[string]string{},
			}
			_ = json.NewEncoder(w).Encode(response)
		}))
		defer server.Close()

		manager := NewLoginTokenManager(&LoginConfig{
			LoginURL: server.URL + "/auth/login",
			Username: "inspector",
			Password: "secret",
		})

		token, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, sight.ErrTokenNotFound)
		assert.Equal(t, "", token)
	})

	t.Run("no credentials available", func(t *testing.T) {
		manager := NewLoginTokenManager(&LoginConfig{
			LoginURL: "http://example.com/auth/login",
		})

		token, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, sight.ErrMissingCredentials)
		assert.Equal(t, "", token)
	})
}

func TestLoginTokenManager_SetToken(t *testing.T) {
	manager := NewLoginTokenManager(&LoginConfig{})

	expiresAt := time.Now().Add(1 * time.Hour)
	manager.SetToken("manual-token", expiresAt)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	storedToken := manager.store.Get()
	assert.Equal(t, "manual-token", storedToken.AccessToken)
	assert.Equal(t, expiresAt.Unix(), storedToken.ExpiresAt.Unix())
}

func TestLoginTokenManager_RefreshToken(t *testing.T) {
	logins := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
		response := map[string]interface{}{
			"data": map[string]string{"token": "refreshed-token"},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	manager := NewLoginTokenManager(&LoginConfig{
		LoginURL: server.URL + "/auth/login",
		Username: "inspector",
		Password: "secret",
	})

	// Set a token the service no longer accepts
	manager.SetToken("stale-token", time.Now().Add(1*time.Hour))

	// Force a new login
	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, logins)

	// Should have the fresh token
	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token)
}

func TestLoginTokenManager_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string

		err := json.NewDecoder(r.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, "newuser", body["username"])
		assert.Equal(t, "newpass", body["password"])

		response := map[string]interface{}{
			"data": map[string]string{"token": "new-session-token"},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	manager := NewLoginTokenManager(&LoginConfig{
		LoginURL: server.URL + "/auth/login",
		Username: "olduser",
		Password: "oldpass",
	})

	err := manager.Login(context.Background(), "newuser", "newpass")
	require.NoError(t, err)

	// Credentials are replaced for future logins
	assert.Equal(t, "newuser", manager.config.Username)
	assert.Equal(t, "newpass", manager.config.Password)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-session-token", token)
}
