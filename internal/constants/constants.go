package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as the login exchange.
	ShortHTTPTimeout = 10 * time.Second
)

// HTTP status codes.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400

	// HTTPStatusInternalServerError represents server errors.
	HTTPStatusInternalServerError = 500
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the page size the service applies when limit is omitted.
	DefaultPageSize = 10

	// MaxPageSize is the largest limit the service accepts.
	MaxPageSize = 100

	// StandardPageSize is the common page size for CLI listings.
	StandardPageSize = 50

	// MaxPages bounds a fetch-all run so a misreported total cannot
	// turn into an unbounded request storm.
	MaxPages = 50
)

// Concurrency limits.
const (
	// DefaultConcurrentFetches is the default worker count for fetch-all.
	DefaultConcurrentFetches = 10

	// MaxConcurrentFetches is the service-documented request concurrency cap.
	MaxConcurrentFetches = 20

	// DefaultBatchConcurrency limits concurrent batch operations.
	DefaultBatchConcurrency = 5
)

// Cache sizes and lifetimes.
const (
	// DefaultCacheSize is the default cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheSetTTL is the default TTL when setting cache values.
	DefaultCacheSetTTL = 10 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// OrganizationsCacheTTL is the TTL for organization listings, which
	// change rarely.
	OrganizationsCacheTTL = 10 * time.Minute

	// MetadataCacheTTL is the TTL for measurement metadata.
	MetadataCacheTTL = 10 * time.Minute

	// ReportsCacheTTL is the TTL for inspection report listings.
	ReportsCacheTTL = 2 * time.Minute

	// BookingsCacheTTL is the TTL for booking listings, which churn quickly.
	BookingsCacheTTL = 30 * time.Second
)

// Circuit breaker thresholds.
const (
	// CircuitBreakerThreshold is the failure threshold for the circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the number of half-open successes that close the circuit.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is how long the breaker stays open before probing.
	CircuitBreakerTimeout = 30 * time.Second
)

// Output format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Batch operation types.
const (
	// OperationCreate for create operations.
	OperationCreate = "create"

	// OperationUpdate for update operations.
	OperationUpdate = "update"

	// OperationDelete for delete operations.
	OperationDelete = "delete"
)

// CLI argument counts.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)
