package auth

import (
	"context"
	"sync"
	"time"
)

// tokenExpiryBuffer keeps a safety margin so tokens are replaced before the
// service starts rejecting them mid-flight.
const tokenExpiryBuffer = 30 * time.Second

// TokenManager manages the session token attached to API requests.
type TokenManager interface {
	// GetToken returns a valid token, logging in first when none is held.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a fresh token to be obtained.
	RefreshToken(ctx context.Context) error
	// SetToken manually installs a token.
	SetToken(token string, expiresAt time.Time)
}

// Token represents a session token issued by the login endpoint. The service
// does not report a lifetime, so ExpiresAt stays zero unless the caller knows
// better; a zero ExpiresAt means the token is kept until the service rejects
// it.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid returns true if the token exists and has not expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(tokenExpiryBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token behind a lock so a client can be shared
// across goroutines.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil when none is held.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set stores a token, replacing any previous one.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
