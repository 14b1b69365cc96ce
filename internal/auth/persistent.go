package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister saves session tokens outside the process, typically to a
// config file, so the next process can reuse them instead of logging in
// again.
type TokenPersister interface {
	SaveToken(apiName, token string) error
}

// PersistentTokenManager wraps a LoginTokenManager and writes every fresh
// token through the persister. CLI invocations are short-lived, so a token
// obtained by one command must be saved for the next. Persistence failures
// are reported as warnings and never fail the request that triggered them.
type PersistentTokenManager struct {
	inner     *LoginTokenManager
	persister TokenPersister
	apiName   string
	mu        sync.Mutex
	lastSaved string
}

// NewPersistentTokenManager creates a token manager that persists tokens
// under the given API name. An initial token, when non-empty, seeds the
// session and is treated as already saved.
func NewPersistentTokenManager(inner *LoginTokenManager, persister TokenPersister, apiName, initialToken string) *PersistentTokenManager {
	if initialToken != "" {
		inner.SetToken(initialToken, time.Time{})
	}

	return &PersistentTokenManager{
		inner:     inner,
		persister: persister,
		apiName:   apiName,
		lastSaved: initialToken,
	}
}

// GetToken returns a valid token, logging in first when none is held. A
// token the persister has not seen yet is saved before it is returned.
func (m *PersistentTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.inner.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.saveIfFresh(token)

	return token, nil
}

// RefreshToken discards the cached token, logs in again and persists the
// replacement.
func (m *PersistentTokenManager) RefreshToken(ctx context.Context) error {
	err := m.inner.RefreshToken(ctx)
	if err != nil {
		return err
	}

	if token := m.inner.store.Get(); token != nil {
		m.saveIfFresh(token.AccessToken)
	}

	return nil
}

// SetToken manually installs a token. The token is assumed to come from the
// persisted config, so it is not written back.
func (m *PersistentTokenManager) SetToken(token string, expiresAt time.Time) {
	m.inner.SetToken(token, expiresAt)

	m.mu.Lock()
	m.lastSaved = token
	m.mu.Unlock()
}

// Login exchanges the credentials for a fresh token, installs it and
// persists it.
func (m *PersistentTokenManager) Login(ctx context.Context, username, password string) error {
	err := m.inner.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if token := m.inner.store.Get(); token != nil {
		m.saveIfFresh(token.AccessToken)
	}

	return nil
}

// Logout discards the session token in memory. Clearing the persisted copy
// is the caller's job since it owns the config.
func (m *PersistentTokenManager) Logout() {
	m.inner.Logout()

	m.mu.Lock()
	m.lastSaved = ""
	m.mu.Unlock()
}

// HasCredentials reports whether the wrapped manager can log in on its own.
func (m *PersistentTokenManager) HasCredentials() bool {
	return m.inner.HasCredentials()
}

// saveIfFresh writes the token through the persister unless it was already
// saved.
func (m *PersistentTokenManager) saveIfFresh(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" || token == m.lastSaved {
		return
	}

	err := m.persist(token)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist session token: %v\n", err)

		return
	}

	m.lastSaved = token
}

// persist saves the token through the configured persister.
func (m *PersistentTokenManager) persist(token string) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.SaveToken(m.apiName, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}
