package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// LoginConfig holds the settings for credential-based authentication.
type LoginConfig struct {
	// LoginURL is the absolute URL of the login endpoint.
	LoginURL string
	// Username and Password are the account credentials exchanged for a
	// token.
	Username string
	Password string
	// HTTPClient overrides the client used for the login exchange. Nil uses
	// a client with the short default timeout.
	HTTPClient *http.Client
}

// LoginTokenManager obtains tokens from the login endpoint and caches them
// until the service stops accepting them. The login exchange is guarded by a
// mutex so concurrent callers share a single login instead of racing.
type LoginTokenManager struct {
	config *LoginConfig
	store  *TokenStore
	client *http.Client
	mu     sync.Mutex
}

// NewLoginTokenManager creates a token manager that authenticates with
// username and password.
func NewLoginTokenManager(config *LoginConfig) *LoginTokenManager {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	return &LoginTokenManager{
		config: config,
		store:  NewTokenStore(),
		client: client,
	}
}

// GetToken returns the cached token, logging in first when none is held.
func (m *LoginTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have logged in while we waited for the lock.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.login(ctx, m.config.Username, m.config.Password)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken discards the cached token and logs in again with the stored
// credentials.
func (m *LoginTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.login(ctx, m.config.Username, m.config.Password)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually installs a token.
func (m *LoginTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}

// HasCredentials reports whether the manager holds credentials to log in
// with.
func (m *LoginTokenManager) HasCredentials() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.config.Username != "" && m.config.Password != ""
}

// Logout discards the stored token. When credentials are held, the next
// request logs in again.
func (m *LoginTokenManager) Logout() {
	m.store.Clear()
}

// Login exchanges the given credentials for a fresh token and installs it,
// replacing the stored credentials and any cached token.
func (m *LoginTokenManager) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.login(ctx, username, password)
	if err != nil {
		return err
	}

	m.config.Username = username
	m.config.Password = password
	m.store.Set(token)

	return nil
}

// login performs the credential exchange against the login endpoint.
func (m *LoginTokenManager) login(ctx context.Context, username, password string) (*Token, error) {
	if username == "" || password == "" {
		return nil, sight.ErrMissingCredentials
	}

	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.LoginURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, sight.ParseAPIError(resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing login response: %w", err)
	}

	if envelope.Data.Token == "" {
		return nil, sight.ErrTokenNotFound
	}

	return &Token{AccessToken: envelope.Data.Token}, nil
}
