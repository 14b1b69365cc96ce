package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// The concrete client must satisfy the full public interface.
var _ sight.Client = (*Client)(nil)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func (l *recordingLogger) log(level, msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]any) { l.log("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]any)  { l.log("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]any)  { l.log("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]any) { l.log("error", msg, fields) }

func (l *recordingLogger) warnings() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var warns []logEntry

	for _, entry := range l.entries {
		if entry.level == "warn" {
			warns = append(warns, entry)
		}
	}

	return warns
}

// failingTokenManager always fails to produce a token.
type failingTokenManager struct{}

func (m *failingTokenManager) GetToken(_ context.Context) (string, error) {
	return "", ErrTestSomeError
}

func (m *failingTokenManager) RefreshToken(_ context.Context) error { return ErrTestSomeError }

func (m *failingTokenManager) SetToken(_ string, _ time.Time) {}

// stubTokenManager is a minimal token manager without login or logout
// support.
type stubTokenManager struct {
	mu    sync.Mutex
	token string
}

func (m *stubTokenManager) GetToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, nil
}

func (m *stubTokenManager) RefreshToken(_ context.Context) error {
	return sight.ErrRefreshNotSupported
}

func (m *stubTokenManager) SetToken(token string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// loginServer stubs the login exchange and a protected resource. Each login
// issues a new numbered token; the resource rejects everything but the most
// recently issued one.
type loginServer struct {
	*httptest.Server

	mu         sync.Mutex
	logins     int
	seenTokens []string
	tokens     []string
}

func newLoginServer(t *testing.T) *loginServer {
	t.Helper()

	server := &loginServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)

		var creds map[string]string

		err := json.NewDecoder(request.Body).Decode(&creds)
		require.NoError(t, err)
		assert.NotEmpty(t, creds["username"])
		assert.NotEmpty(t, creds["password"])

		server.mu.Lock()
		server.logins++
		token := server.nextTokenLocked()
		server.mu.Unlock()

		WriteJSON(t, writer, http.StatusOK, map[string]any{
			"data": map[string]string{"token": token},
		})
	})

	mux.HandleFunc("/products", func(writer http.ResponseWriter, request *http.Request) {
		token := request.Header.Get("token")

		server.mu.Lock()
		server.seenTokens = append(server.seenTokens, token)
		valid := len(server.tokens) > 0 && token == server.tokens[len(server.tokens)-1]
		server.mu.Unlock()

		if !valid {
			WriteAPIError(t, writer, http.StatusUnauthorized, "UNAUTHORIZED", "token is not valid")

			return
		}

		WriteJSON(t, writer, http.StatusOK, RecordPage(1, sight.Record{"id": "p-1"}))
	})

	server.Server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func (s *loginServer) nextTokenLocked() string {
	token := "session-token-" + string(rune('a'+len(s.tokens)))
	s.tokens = append(s.tokens, token)

	return token
}

func (s *loginServer) loginCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.logins
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		client, err := New(nil)
		require.ErrorIs(t, err, sight.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("defaults to production", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{})
		require.NoError(t, err)
		assert.Equal(t, sight.ProductionBaseURL, client.baseURL)
	})

	t.Run("resolves the environment", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{Environment: sight.EnvironmentStaging})
		require.NoError(t, err)
		assert.Equal(t, sight.StagingBaseURL, client.baseURL)
	})

	t.Run("explicit base URL wins", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{
			Environment: sight.EnvironmentStaging,
			BaseURL:     "http://localhost:8080/api/v1",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api/v1", client.baseURL)
	})

	t.Run("rejects unknown environments", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{Environment: "qa"})
		require.ErrorIs(t, err, sight.ErrUnknownEnvironment)
		assert.Contains(t, err.Error(), "resolving environment")
		assert.Nil(t, client)
	})

	t.Run("initializes every resource client", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{})
		require.NoError(t, err)

		assert.NotNil(t, client.Bookings())
		assert.NotNil(t, client.Assignments())
		assert.NotNil(t, client.Reports())
		assert.NotNil(t, client.CAPAs())
		assert.NotNil(t, client.PurchaseOrders())
		assert.NotNil(t, client.Products())
		assert.NotNil(t, client.TimeAndActions())
		assert.NotNil(t, client.LabTestReports())
		assert.NotNil(t, client.MeasurementCharts())
		assert.NotNil(t, client.Organizations())
		assert.NotNil(t, client.Brands())
		assert.NotNil(t, client.Analytics())
		assert.NotNil(t, client.Metadata())
		assert.NotNil(t, client.Files())
	})
}

func TestNewWithTokenManager(t *testing.T) {
	t.Parallel()

	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		client, err := NewWithTokenManager(nil, &stubTokenManager{})
		require.ErrorIs(t, err, sight.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("requests carry the manager's token", func(t *testing.T) {
		t.Parallel()

		var seen string

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = request.Header.Get("token")
			WriteJSON(t, writer, http.StatusOK, RecordPage(0))
		}))
		defer server.Close()

		client, err := NewWithTokenManager(&sight.Config{BaseURL: server.URL}, &stubTokenManager{token: "managed-token"})
		require.NoError(t, err)

		_, err = client.Products().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "managed-token", seen)
	})
}

func TestClient_AccessToken(t *testing.T) {
	t.Parallel()

	t.Run("returns the configured token", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{AccessToken: "pre-issued"})
		require.NoError(t, err)

		token, err := client.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "pre-issued", token)
	})

	t.Run("fails when nothing is configured", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{})
		require.NoError(t, err)

		_, err = client.AccessToken(context.Background())
		require.ErrorIs(t, err, sight.ErrNotAuthenticated)
	})

	t.Run("logs in with configured credentials", func(t *testing.T) {
		t.Parallel()

		server := newLoginServer(t)

		client, err := New(&sight.Config{
			BaseURL:  server.URL,
			Username: "quality@example.com",
			Password: "hunter2",
		})
		require.NoError(t, err)

		token, err := client.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token-a", token)
		assert.Equal(t, 1, server.loginCount())

		// The token is cached; asking again does not log in again.
		token, err = client.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token-a", token)
		assert.Equal(t, 1, server.loginCount())
	})

	t.Run("wraps token manager failures", func(t *testing.T) {
		t.Parallel()

		client, err := NewWithTokenManager(&sight.Config{BaseURL: "http://localhost:8080"}, &failingTokenManager{})
		require.NoError(t, err)

		_, err = client.AccessToken(context.Background())
		require.ErrorIs(t, err, ErrTestSomeError)
		assert.Contains(t, err.Error(), "failed to get token")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("installs a fresh session token", func(t *testing.T) {
		t.Parallel()

		server := newLoginServer(t)

		client, err := New(&sight.Config{BaseURL: server.URL})
		require.NoError(t, err)

		err = client.Login(context.Background(), "quality@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, 1, server.loginCount())

		token, err := client.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token-a", token)

		list, err := client.Products().List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list.Data, 1)
	})

	t.Run("replaces a configured static token", func(t *testing.T) {
		t.Parallel()

		server := newLoginServer(t)

		client, err := New(&sight.Config{BaseURL: server.URL, AccessToken: "pre-issued"})
		require.NoError(t, err)

		err = client.Login(context.Background(), "quality@example.com", "hunter2")
		require.NoError(t, err)

		token, err := client.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "session-token-a", token)
	})

	t.Run("surfaces rejected credentials", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			WriteAPIError(t, writer, http.StatusUnauthorized, "UNAUTHORIZED", "bad credentials")
		}))
		defer server.Close()

		client, err := New(&sight.Config{BaseURL: server.URL})
		require.NoError(t, err)

		err = client.Login(context.Background(), "quality@example.com", "wrong")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "login failed")

		var apiErr *sight.APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("rejects managers without login support", func(t *testing.T) {
		t.Parallel()

		client, err := NewWithTokenManager(&sight.Config{BaseURL: "http://localhost:8080"}, &stubTokenManager{token: "x"})
		require.NoError(t, err)

		err = client.Login(context.Background(), "user", "pass")
		require.ErrorIs(t, err, ErrLoginNotSupported)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	t.Run("forgets the static token", func(t *testing.T) {
		t.Parallel()

		client, err := New(&sight.Config{AccessToken: "pre-issued"})
		require.NoError(t, err)

		client.Logout()

		_, err = client.AccessToken(context.Background())
		require.ErrorIs(t, err, sight.ErrNotAuthenticated)
	})

	t.Run("logs in again when credentials are held", func(t *testing.T) {
		t.Parallel()

		server := newLoginServer(t)

		client, err := New(&sight.Config{
			BaseURL:  server.URL,
			Username: "quality@example.com",
			Password: "hunter2",
		})
		require.NoError(t, err)

		_, err = client.Products().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, server.loginCount())

		client.Logout()

		_, err = client.Products().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, server.loginCount())
	})

	t.Run("clears managers without logout support", func(t *testing.T) {
		t.Parallel()

		manager := &stubTokenManager{token: "managed-token"}

		client, err := NewWithTokenManager(&sight.Config{BaseURL: "http://localhost:8080"}, manager)
		require.NoError(t, err)

		client.Logout()

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestClient_StaticTokenHandoff(t *testing.T) {
	t.Parallel()

	server := newLoginServer(t)

	client, err := New(&sight.Config{
		BaseURL:     server.URL,
		AccessToken: "expired-token",
		Username:    "quality@example.com",
		Password:    "hunter2",
	})
	require.NoError(t, err)

	// The stale token draws a 401, the client logs in with the configured
	// credentials and repeats the request, all within one call.
	list, err := client.Products().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 1, server.loginCount())

	server.mu.Lock()
	seen := append([]string(nil), server.seenTokens...)
	server.mu.Unlock()

	require.Len(t, seen, 2)
	assert.Equal(t, "expired-token", seen[0])
	assert.Equal(t, "session-token-a", seen[1])
}

func TestClient_StaticTokenRejected(t *testing.T) {
	t.Parallel()

	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		WriteAPIError(t, writer, http.StatusUnauthorized, "UNAUTHORIZED", "token is not valid")
	}))
	defer server.Close()

	// Without credentials there is nothing to refresh with, so the 401
	// surfaces after a single attempt.
	client, err := New(&sight.Config{BaseURL: server.URL, AccessToken: "expired-token"})
	require.NoError(t, err)

	_, err = client.Products().List(context.Background())
	require.Error(t, err)

	var apiErr *sight.APIError

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", apiErr.ErrorCode)
	assert.Equal(t, 1, requests)
}

func TestClient_MaxConcurrentFetchesClamped(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}

	client, err := New(&sight.Config{
		MaxConcurrentFetches: 50,
		Logger:               logger,
	})
	require.NoError(t, err)
	assert.Equal(t, sight.MaxConcurrentFetches, client.pagination.MaxConcurrency)

	warns := logger.warnings()
	require.Len(t, warns, 1)
	assert.Equal(t, 50, warns[0].fields["requested"])
	assert.Equal(t, sight.MaxConcurrentFetches, warns[0].fields["cap"])
}

func TestClient_CacheWiring(t *testing.T) {
	t.Parallel()

	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		WriteJSON(t, writer, http.StatusOK, RecordPage(1, sight.Record{"id": "p-1"}))
	}))
	defer server.Close()

	client, err := New(&sight.Config{
		BaseURL: server.URL,
		Cache:   &sight.CacheConfig{Type: sight.CacheTypeMemory},
	})
	require.NoError(t, err)
	require.NotNil(t, client.CacheManager())

	first, err := client.Products().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, first.Data, 1)
	assert.Equal(t, 1, requests)

	// The repeat is served from cache without touching the network.
	second, err := client.Products().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, requests)
}

func TestClient_CacheDisabledByDefault(t *testing.T) {
	t.Parallel()

	client, err := New(&sight.Config{})
	require.NoError(t, err)
	assert.Nil(t, client.CacheManager())
}
