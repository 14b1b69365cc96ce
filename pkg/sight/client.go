package sight

import (
	"context"
	"errors"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrDeprecatedClientConstructor = errors.New("use github.com/inspectorio-io/sight-go/pkg/sightclient.New to create a client")
)

// InspectionClients provides access to inspection-related resource clients.
type InspectionClients interface {
	Bookings() BookingsClient
	Assignments() AssignmentsClient
	Reports() ReportsClient
	CAPAs() CAPAsClient
}

// SupplyChainClients provides access to supply chain resource clients.
type SupplyChainClients interface {
	PurchaseOrders() PurchaseOrdersClient
	Products() ProductsClient
	TimeAndActions() TimeAndActionsClient
}

// QualityClients provides access to quality data resource clients.
type QualityClients interface {
	LabTestReports() LabTestReportsClient
	MeasurementCharts() MeasurementChartsClient
}

// DirectoryClients provides access to the organization directory clients.
type DirectoryClients interface {
	Organizations() OrganizationsClient
	Brands() BrandsClient
}

// PlatformClients provides access to platform-level resource clients.
type PlatformClients interface {
	Analytics() AnalyticsClient
	Metadata() MetadataClient
	Files() FilesClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	// Composite interfaces for resource groups
	InspectionClients
	SupplyChainClients
	QualityClients
	DirectoryClients
	PlatformClients
}

// SessionClient provides access to the authentication session.
type SessionClient interface {
	// Login exchanges credentials for an API token and installs it on the
	// client. It replaces any previously held token.
	Login(ctx context.Context, username, password string) error
	// Logout discards the session token. There is no remote call to revoke
	// it; the next authenticated request logs in again when credentials are
	// held and fails otherwise.
	Logout()
	// AccessToken returns the token requests are currently sent with.
	AccessToken(ctx context.Context) (string, error)
}

type Client interface {
	// Composite interfaces for related resource groups
	ResourceClients
	SessionClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// Config represents client configuration for building a sight.Client.
//
// # Authentication precedence
//
// The following precedence is applied by the concrete client implementation
// (see pkg/sightclient and internal/client):
//  1. AccessToken: if set, it is sent as-is in the token header.
//  2. AccessToken + Username/Password: the token is tried first; when the
//     service stops accepting it, the client logs in again with the
//     credentials and continues with the fresh token.
//  3. Username/Password: the client logs in during construction, the same
//     way the service's own integrations do, and re-logs-in on demand.
//  4. No credentials: requests are sent without authentication and the
//     service will reject anything beyond the login endpoint.
//
// # Endpoints
//
// BaseURL wins when both BaseURL and Environment are set. When neither is
// set the client talks to production.
//
// # Timeouts and retries
//
// HTTPTimeout bounds each attempt of each request; per-call deadlines belong
// in the context passed to client methods. Transient failures (5xx, 429,
// connection errors) are retried with exponential backoff tuned by RetryMax,
// RetryWaitMin and RetryWaitMax.
type Config struct {
	// Environment selects a known deployment: production, preproduction or
	// staging.
	Environment Environment
	// BaseURL overrides the environment's API base URL, mainly for tests
	// and private deployments.
	BaseURL string

	// Username and Password authenticate against the login endpoint.
	Username string
	Password string
	// AccessToken is a token obtained elsewhere, used directly.
	AccessToken string

	// HTTPTimeout bounds each request attempt. Zero means the default of
	// 30 seconds.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries for transient failures. Zero means
	// the default; negative disables retries.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// MaxConcurrentFetches bounds parallel page requests in fetch-all and
	// streaming calls. Zero means DefaultConcurrentFetches; values above
	// MaxConcurrentFetches are clamped to it with a warning.
	MaxConcurrentFetches int

	// Debug enables request and response logging when a Logger is set.
	Debug bool
	// Logger receives the client's structured log output.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// SkipTLSVerify disables certificate verification, for private
	// deployments with self-signed certificates. Never use it against the
	// hosted environments.
	SkipTLSVerify bool

	// Cache configures response caching for GET requests. Nil disables it.
	Cache *CacheConfig
}

// NewClient creates a new Sight API client
// Deprecated: Use github.com/inspectorio-io/sight-go/pkg/sightclient.New instead.
func NewClient(config *Config) (Client, error) {
	return nil, ErrDeprecatedClientConstructor
}
