package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inspectorio-io/sight-go/internal/auth"
	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// Static errors for err113 compliance.
var (
	ErrLoginNotSupported = errors.New("configured token manager does not support login")
)

// Client implements the sight.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       sight.Logger
	cache        *sight.CacheManager
	pagination   *sight.PaginationOptions

	// Resource clients
	bookings          sight.BookingsClient
	assignments       sight.AssignmentsClient
	reports           sight.ReportsClient
	capas             sight.CAPAsClient
	purchaseOrders    sight.PurchaseOrdersClient
	products          sight.ProductsClient
	timeAndActions    sight.TimeAndActionsClient
	labTestReports    sight.LabTestReportsClient
	measurementCharts sight.MeasurementChartsClient
	organizations     sight.OrganizationsClient
	brands            sight.BrandsClient
	analytics         sight.AnalyticsClient
	metadata          sight.MetadataClient
	files             sight.FilesClient
}

// New creates a Sight API client from the configuration. The base URL is
// resolved from config.BaseURL or the selected environment, defaulting to
// production.
func New(config *sight.Config) (*Client, error) {
	if config == nil {
		return nil, sight.ErrConfigRequired
	}

	baseURL, err := resolveBaseURL(config)
	if err != nil {
		return nil, err
	}

	return newWithTokenManager(config, baseURL, createTokenManager(config, baseURL))
}

// NewWithTokenManager creates a Sight API client around a caller-provided
// token manager, e.g. one that persists refreshed tokens to a config file.
func NewWithTokenManager(config *sight.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, sight.ErrConfigRequired
	}

	baseURL, err := resolveBaseURL(config)
	if err != nil {
		return nil, err
	}

	return newWithTokenManager(config, baseURL, tokenManager)
}

func newWithTokenManager(config *sight.Config, baseURL string, tokenManager auth.TokenManager) (*Client, error) {
	client := &Client{
		tokenManager: tokenManager,
		baseURL:      baseURL,
		logger:       config.Logger,
		pagination:   resolvePagination(config),
	}

	httpOpts := createHTTPClientOptions(config)

	if config.Cache != nil {
		chain, manager, err := buildCacheChain(config.Cache)
		if err != nil {
			return nil, err
		}

		client.cache = manager
		httpOpts = append(httpOpts, http.WithInterceptors(chain))
	}

	client.httpClient = http.NewClient(baseURL, tokenManager, httpOpts...)
	client.initializeResourceClients()

	return client, nil
}

// resolveBaseURL applies the documented precedence: an explicit BaseURL
// wins, then the selected environment, then production.
func resolveBaseURL(config *sight.Config) (string, error) {
	if config.BaseURL != "" {
		return config.BaseURL, nil
	}

	env := config.Environment
	if env == "" {
		env = sight.EnvironmentProduction
	}

	baseURL, err := sight.BaseURLForEnvironment(env)
	if err != nil {
		return "", fmt.Errorf("resolving environment %q: %w", env, err)
	}

	return baseURL, nil
}

// createTokenManager builds the token manager for the configured
// credentials. Every client gets one, even with nothing configured, so a
// later Login can bootstrap the session; until then requests go out
// unauthenticated and the service rejects anything beyond the login
// endpoint.
func createTokenManager(config *sight.Config, baseURL string) auth.TokenManager {
	loginManager := auth.NewLoginTokenManager(&auth.LoginConfig{
		LoginURL: baseURL + "/auth/login",
		Username: config.Username,
		Password: config.Password,
	})

	return &sessionTokenManager{
		staticToken:  config.AccessToken,
		loginManager: loginManager,
	}
}

// resolvePagination derives the client-level pagination defaults from the
// config, clamping the fetch concurrency to the service's documented cap.
func resolvePagination(config *sight.Config) *sight.PaginationOptions {
	concurrency := config.MaxConcurrentFetches
	if concurrency > sight.MaxConcurrentFetches {
		if config.Logger != nil {
			config.Logger.Warn("MaxConcurrentFetches exceeds the service cap, clamping", map[string]any{
				"requested": concurrency,
				"cap":       sight.MaxConcurrentFetches,
			})
		}

		concurrency = sight.MaxConcurrentFetches
	}

	return &sight.PaginationOptions{MaxConcurrency: concurrency}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *sight.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax != 0 {
		retryMax := config.RetryMax
		if retryMax < 0 {
			retryMax = 0 // negative disables retries
		}

		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax))
	}

	if config.SkipTLSVerify {
		//nolint:gosec // Explicit opt-in for private deployments.
		httpOpts = append(httpOpts, http.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	}

	return httpOpts
}

// buildCacheChain assembles the response cache and its interceptors.
func buildCacheChain(cacheConfig *sight.CacheConfig) (*sight.InterceptorChain, *sight.CacheManager, error) {
	cache, err := sight.NewCacheFromConfig(cacheConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("building cache: %w", err)
	}

	manager := sight.NewCacheManager(cache, cacheConfig.Options)
	chain := sight.NewInterceptorChain()
	sight.ConfigureSmartCache(chain, manager, nil)

	return chain, manager, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// CacheManager returns the response cache manager, or nil when caching is
// disabled, so callers can inspect hit rates or prime entries.
func (c *Client) CacheManager() *sight.CacheManager {
	return c.cache
}

// Login implements sight.SessionClient. The fresh token replaces whatever
// the client was sending before, regardless of how it was configured.
func (c *Client) Login(ctx context.Context, username, password string) error {
	manager, ok := c.tokenManager.(interface {
		Login(ctx context.Context, username, password string) error
	})
	if !ok {
		return ErrLoginNotSupported
	}

	err := manager.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return nil
}

// Logout implements sight.SessionClient.
func (c *Client) Logout() {
	if manager, ok := c.tokenManager.(interface{ Logout() }); ok {
		manager.Logout()

		return
	}

	// Fall back to blanking the token for managers without a logout.
	c.tokenManager.SetToken("", time.Time{})
}

// AccessToken implements sight.SessionClient.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	if token == "" {
		return "", sight.ErrNotAuthenticated
	}

	return token, nil
}

// Resource client accessors

// Bookings implements sight.Client.Bookings.
func (c *Client) Bookings() sight.BookingsClient {
	return c.bookings
}

// Assignments implements sight.Client.Assignments.
func (c *Client) Assignments() sight.AssignmentsClient {
	return c.assignments
}

// Reports implements sight.Client.Reports.
func (c *Client) Reports() sight.ReportsClient {
	return c.reports
}

// CAPAs implements sight.Client.CAPAs.
func (c *Client) CAPAs() sight.CAPAsClient {
	return c.capas
}

// PurchaseOrders implements sight.Client.PurchaseOrders.
func (c *Client) PurchaseOrders() sight.PurchaseOrdersClient {
	return c.purchaseOrders
}

// Products implements sight.Client.Products.
func (c *Client) Products() sight.ProductsClient {
	return c.products
}

// TimeAndActions implements sight.Client.TimeAndActions.
func (c *Client) TimeAndActions() sight.TimeAndActionsClient {
	return c.timeAndActions
}

// LabTestReports implements sight.Client.LabTestReports.
func (c *Client) LabTestReports() sight.LabTestReportsClient {
	return c.labTestReports
}

// MeasurementCharts implements sight.Client.MeasurementCharts.
func (c *Client) MeasurementCharts() sight.MeasurementChartsClient {
	return c.measurementCharts
}

// Organizations implements sight.Client.Organizations.
func (c *Client) Organizations() sight.OrganizationsClient {
	return c.organizations
}

// Brands implements sight.Client.Brands.
func (c *Client) Brands() sight.BrandsClient {
	return c.brands
}

// Analytics implements sight.Client.Analytics.
func (c *Client) Analytics() sight.AnalyticsClient {
	return c.analytics
}

// Metadata implements sight.Client.Metadata.
func (c *Client) Metadata() sight.MetadataClient {
	return c.metadata
}

// Files implements sight.Client.Files.
func (c *Client) Files() sight.FilesClient {
	return c.files
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.bookings = NewBookingsClient(c.httpClient, c.pagination)
	c.assignments = NewAssignmentsClient(c.httpClient, c.pagination)
	c.reports = NewReportsClient(c.httpClient, c.pagination)
	c.capas = NewCAPAsClient(c.httpClient)
	c.purchaseOrders = NewPurchaseOrdersClient(c.httpClient, c.pagination)
	c.products = NewProductsClient(c.httpClient)
	c.timeAndActions = NewTimeAndActionsClient(c.httpClient, c.pagination)
	c.labTestReports = NewLabTestReportsClient(c.httpClient, c.pagination)
	c.measurementCharts = NewMeasurementChartsClient(c.httpClient)
	c.organizations = NewOrganizationsClient(c.httpClient, c.pagination)
	c.brands = NewBrandsClient(c.httpClient, c.pagination)
	c.analytics = NewAnalyticsClient(c.httpClient, c.pagination)
	c.metadata = NewMetadataClient(c.httpClient, c.pagination)
	c.files = NewFilesClient(c.httpClient)
}

// sessionTokenManager layers a pre-provisioned token over the login flow.
// The static token is used until the service rejects it; from then on the
// login manager owns the session. This covers every credential combination
// the config allows: token only, credentials only, both, or neither.
type sessionTokenManager struct {
	mu           sync.Mutex
	staticToken  string
	usingLogin   bool
	loginManager *auth.LoginTokenManager
}

func (m *sessionTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()

	if !m.usingLogin && m.staticToken != "" {
		token := m.staticToken
		m.mu.Unlock()

		return token, nil
	}

	if !m.usingLogin && !m.loginManager.HasCredentials() {
		m.mu.Unlock()

		// Nothing to authenticate with; the request goes out bare and the
		// service answers 401 for anything beyond login.
		return "", nil
	}

	m.usingLogin = true
	m.mu.Unlock()

	return m.loginManager.GetToken(ctx)
}

func (m *sessionTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()

	if !m.usingLogin && !m.loginManager.HasCredentials() {
		defer m.mu.Unlock()

		if m.staticToken != "" {
			return sight.ErrStaticToken
		}

		return sight.ErrNotAuthenticated
	}

	m.usingLogin = true
	m.mu.Unlock()

	return m.loginManager.RefreshToken(ctx)
}

func (m *sessionTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usingLogin {
		m.loginManager.SetToken(token, expiresAt)

		return
	}

	m.staticToken = token
}

// Login hands the session over to the login manager with fresh credentials.
func (m *sessionTokenManager) Login(ctx context.Context, username, password string) error {
	err := m.loginManager.Login(ctx, username, password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.usingLogin = true
	m.mu.Unlock()

	return nil
}

// Logout discards both the static token and any login session.
func (m *sessionTokenManager) Logout() {
	m.mu.Lock()
	m.staticToken = ""
	m.mu.Unlock()

	m.loginManager.Logout()
}

// loggerAdapter adapts sight.Logger to http.Logger.
type loggerAdapter struct {
	logger sight.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
