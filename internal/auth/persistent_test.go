package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPersisterBroken = errors.New("persister broken")

// recordingPersister captures every SaveToken call.
type recordingPersister struct {
	mu       sync.Mutex
	saves    []string
	names    []string
	failWith error
}

func (p *recordingPersister) SaveToken(apiName, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return p.failWith
	}

	p.names = append(p.names, apiName)
	p.saves = append(p.saves, token)

	return nil
}

func (p *recordingPersister) saved() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.saves...)
}

// newTokenServer issues a new token per login: "token-1", "token-2", ...
func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()

	logins := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
		response := map[string]interface{}{
			"data": map[string]string{"token": "token-" + string(rune('0'+logins))},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestPersistentTokenManager_GetToken(t *testing.T) {
	t.Run("persists a freshly obtained token once", func(t *testing.T) {
		server := newTokenServer(t)
		persister := &recordingPersister{}

		inner := NewLoginTokenManager(&LoginConfig{
			LoginURL: server.URL + "/auth/login",
			Username: "inspector",
			Password: "secret",
		})
		manager := NewPersistentTokenManager(inner, persister, "production", "")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)

		// The cached token is not saved again
		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)

		assert.Equal(t, []string{"token-1"}, persister.saved())
		assert.Equal(t, []string{"production"}, persister.names)
	})

	t.Run("treats the initial token as already saved", func(t *testing.T) {
		persister := &recordingPersister{}

		inner := NewLoginTokenManager(&LoginConfig{})
		manager := NewPersistentTokenManager(inner, persister, "production", "stored-token")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stored-token", token)
		assert.Empty(t, persister.saved())
	})

	t.Run("persister failure does not fail the request", func(t *testing.T) {
		server := newTokenServer(t)
		persister := &recordingPersister{failWith: errPersisterBroken}

		inner := NewLoginTokenManager(&LoginConfig{
			LoginURL: server.URL + "/auth/login",
			Username: "inspector",
			Password: "secret",
		})
		manager := NewPersistentTokenManager(inner, persister, "production", "")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	})
}

func TestPersistentTokenManager_RefreshToken(t *testing.T) {
	server := newTokenServer(t)
	persister := &recordingPersister{}

	inner := NewLoginTokenManager(&LoginConfig{
		LoginURL: server.URL + "/auth/login",
		Username: "inspector",
		Password: "secret",
	})
	manager := NewPersistentTokenManager(inner, persister, "staging", "stale-token")

	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	assert.Equal(t, []string{"token-1"}, persister.saved())
}

func TestPersistentTokenManager_Login(t *testing.T) {
	server := newTokenServer(t)
	persister := &recordingPersister{}

	inner := NewLoginTokenManager(&LoginConfig{
		LoginURL: server.URL + "/auth/login",
	})
	manager := NewPersistentTokenManager(inner, persister, "production", "")

	err := manager.Login(context.Background(), "inspector", "secret")
	require.NoError(t, err)

	assert.Equal(t, []string{"token-1"}, persister.saved())
	assert.True(t, manager.HasCredentials())
}

func TestPersistentTokenManager_SetToken(t *testing.T) {
	persister := &recordingPersister{}

	inner := NewLoginTokenManager(&LoginConfig{})
	manager := NewPersistentTokenManager(inner, persister, "production", "")

	// Tokens installed by hand come from the config and are not written back
	manager.SetToken("config-token", time.Time{})

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "config-token", token)
	assert.Empty(t, persister.saved())
}

func TestPersistentTokenManager_Logout(t *testing.T) {
	server := newTokenServer(t)
	persister := &recordingPersister{}

	inner := NewLoginTokenManager(&LoginConfig{
		LoginURL: server.URL + "/auth/login",
		Username: "inspector",
		Password: "secret",
	})
	manager := NewPersistentTokenManager(inner, persister, "production", "")

	_, err := manager.GetToken(context.Background())
	require.NoError(t, err)

	manager.Logout()

	// The next request logs in again and the new token is persisted
	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, []string{"token-1", "token-2"}, persister.saved())
}
