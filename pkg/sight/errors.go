package sight

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the Sight API. The service
// reports failures as a JSON object carrying an errorCode and a message;
// responses that are not JSON are preserved verbatim in RawBody.
type APIError struct {
	StatusCode int    `json:"statusCode" yaml:"statusCode"`
	ErrorCode  string `json:"errorCode" yaml:"errorCode"`
	Message    string `json:"message" yaml:"message"`
	RawBody    []byte `json:"-" yaml:"-"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" || e.Message != "" {
		return fmt.Sprintf("API error %d [%s]: %s", e.StatusCode, e.ErrorCode, e.Message)
	}

	return fmt.Sprintf("API error %d: %s", e.StatusCode, string(e.RawBody))
}

// Fallbacks used when an error body is valid JSON but omits a field.
const (
	unknownErrorCode    = "Unknown"
	unknownErrorMessage = "An unknown error occurred."
)

// ParseAPIError builds an APIError from a non-2xx response. Bodies that do
// not decode as the service's error envelope keep the raw text so nothing
// the server said is lost.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		RawBody:    body,
	}

	var envelope struct {
		ErrorCode any    `json:"errorCode"`
		Message   string `json:"message"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	apiErr.ErrorCode = unknownErrorCode
	if envelope.ErrorCode != nil {
		apiErr.ErrorCode = fmt.Sprint(envelope.ErrorCode)
	}

	apiErr.Message = unknownErrorMessage
	if envelope.Message != "" {
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// Static errors for err113 compliance.
var (
	// ErrTokenNotFound indicates a login response that did not carry a token.
	ErrTokenNotFound = errors.New("token not found in response")
	// ErrNotAuthenticated indicates a request made before any login or token
	// was configured.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrMissingCredentials indicates a login attempt without a username and
	// password.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrBaseURLRequired indicates a client configured without a base URL or
	// a known environment.
	ErrBaseURLRequired = errors.New("base URL is required")
	// ErrConfigRequired indicates a nil configuration passed to a constructor.
	ErrConfigRequired = errors.New("config is required")
	// ErrUnknownEnvironment indicates an environment name outside the set the
	// service operates.
	ErrUnknownEnvironment = errors.New("unknown environment")
	// ErrNoMoreItems indicates an iterator advanced past its final page.
	ErrNoMoreItems = errors.New("no more items")
	// ErrCircuitBreakerOpen indicates requests are being short-circuited
	// after repeated upstream failures.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrCacheKeyNotFound indicates a cache lookup miss.
	ErrCacheKeyNotFound = errors.New("cache key not found")
	// ErrCacheValueTooLarge indicates a value over the cache's size limit.
	ErrCacheValueTooLarge = errors.New("cache value too large")
	// ErrStaticToken indicates a refresh attempt on a fixed token that has no
	// credentials behind it.
	ErrStaticToken = errors.New("static token cannot be refreshed")
	// ErrRefreshNotSupported indicates a token manager without refresh
	// capability.
	ErrRefreshNotSupported = errors.New("token refresh not supported")
)

// IsNotFound returns true when err is a Sight API error with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized returns true when err is a Sight API error with status 401.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden returns true when err is a Sight API error with status 403.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited returns true when err is a Sight API error with status 429.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsAuthError reports whether err means the session is not (or no longer)
// accepted, so the caller can log in again. Covers 401 and 403 responses as
// well as the sentinel auth errors.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrTokenNotFound) {
		return true
	}

	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// ErrorStatusCode extracts the HTTP status from err, or 0 when err did not
// originate from an API response.
func ErrorStatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}

	return false
}

// Test error variables for test files to comply with err113.
var (
	ErrTestInternalServer = errors.New("test error: internal server error")
	ErrTestNetwork        = errors.New("test error: network failure")
	ErrTestCacheBackend   = errors.New("test error: cache backend failure")
)
