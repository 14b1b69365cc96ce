package sight

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/inspectorio-io/sight-go/internal/constants"
)

// Request is the interceptor view of an outgoing API call: the endpoint path
// with its query string, the headers that will go on the wire, and the JSON
// body for writes. Metadata carries values between interceptors on the same
// call, e.g. a cached response or a request start time.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the interceptor view of the service's answer, or of the
// transport failure that replaced it.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors. Request interceptors run
// in registration order before the call, response interceptors run in
// registration order after it; the first error stops the chain.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new empty interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs the request interceptors in order.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs the response interceptors in order.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs each outgoing request. Records pass through the
// client untyped, so the useful signals are the endpoint and the payload
// size, not the payload itself.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		fields := map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		}
		if len(req.Body) > 0 {
			fields["body_bytes"] = len(req.Body)
		}

		logger.Debug("API Request", fields)

		return nil
	}
}

// LoggingResponseInterceptor logs each response, at error level when the
// call failed.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}
		if len(resp.Body) > 0 {
			fields["body_bytes"] = len(resp.Body)
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)

			return nil
		}

		logger.Debug("API Response", fields)

		return nil
	}
}

// RateLimitInterceptor spaces requests evenly at the given per-second rate.
// The service throttles by request rate per token, so a client that fans out
// page fetches across goroutines should install one of these sized to its
// request budget; even spacing avoids the burst-then-429 pattern a token
// bucket produces against this service.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	interval := time.Second / time.Duration(requestsPerSecond)

	var (
		mu   sync.Mutex
		next time.Time
	)

	return func(ctx context.Context, req *Request) error {
		mu.Lock()

		now := time.Now()
		if next.Before(now) {
			next = now
		}

		wait := next.Sub(now)
		next = next.Add(interval)

		mu.Unlock()

		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// AuthenticationInterceptor injects the session token. The service expects
// the raw token in a "token" header rather than an Authorization bearer
// scheme.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to get authentication token: %w", err)
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("token", token)

		return nil
	}
}

// HeaderInterceptor adds fixed headers to every request, e.g. a correlation
// ID or an integration-specific User-Agent.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// metadataStartTime is the request metadata key the metrics pair shares.
const metadataStartTime = "start_time"

// Metrics aggregates call statistics for one endpoint, keyed as
// "METHOD /path".
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector aggregates per-endpoint metrics across concurrent calls.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics *Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange registers a callback invoked after each recorded response with
// a snapshot of the endpoint's metrics.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics *Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of an endpoint's metrics, or nil when the
// endpoint has not been called.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return nil
	}

	snapshot := *metrics

	return &snapshot
}

// record folds one response into the endpoint's metrics and returns a
// snapshot for the onChange callback.
func (m *MetricsCollector) record(endpoint string, latency time.Duration, failed bool) (*Metrics, func(string, *Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if latency > 0 {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	snapshot := *metrics

	return &snapshot, m.onChange
}

// MetricsRequestInterceptor stamps the request with its start time so the
// response side can compute latency.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[metadataStartTime] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor folds the response into the endpoint's metrics.
// Calls that failed in transport or came back 4xx/5xx count as errors.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		endpoint := req.Method + " " + req.Path

		var latency time.Duration

		if req.Metadata != nil {
			if startTime, ok := req.Metadata[metadataStartTime].(time.Time); ok {
				latency = time.Since(startTime)
			}
		}

		failed := resp.Error != nil || resp.StatusCode >= 400

		snapshot, onChange := collector.record(endpoint, latency, failed)
		if onChange != nil {
			onChange(endpoint, snapshot)
		}

		return nil
	}
}

// breakerState is the circuit breaker's current disposition.
type breakerState int

const (
	// breakerClosed passes requests through and counts failures.
	breakerClosed breakerState = iota
	// breakerOpen short-circuits requests until the timeout passes.
	breakerOpen
	// breakerHalfOpen lets trial requests through after the timeout.
	breakerHalfOpen
)

// CircuitBreakerConfig controls the circuit breaker interceptor pair.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the circuit.
	Threshold int
	// Timeout is how long the circuit stays open before letting a trial
	// request through.
	Timeout time.Duration
	// SuccessThreshold is the number of half-open successes that close it.
	SuccessThreshold int
}

// CircuitBreaker short-circuits calls to the service while it is failing,
// so a Sight outage degrades into fast errors instead of piles of blocked
// fetch-all runs waiting out retries.
type CircuitBreaker struct {
	config *CircuitBreakerConfig

	mu          sync.Mutex
	state       breakerState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewCircuitBreaker creates a circuit breaker. A nil config uses the
// constants-level defaults.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        constants.CircuitBreakerThreshold,
			Timeout:          constants.CircuitBreakerTimeout,
			SuccessThreshold: constants.CircuitBreakerSuccessThreshold,
		}
	}

	return &CircuitBreaker{config: config}
}

// allow reports whether a request may proceed, moving an expired open
// circuit to half-open.
func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == breakerOpen {
		if time.Since(b.lastFailure) <= b.config.Timeout {
			return ErrCircuitBreakerOpen
		}

		b.state = breakerHalfOpen
		b.successes = 0
	}

	return nil
}

// observe folds one call outcome into the circuit state.
func (b *CircuitBreaker) observe(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if failed {
		b.failures++
		b.lastFailure = time.Now()

		// A half-open failure reopens immediately; repeated failures trip
		// a closed circuit.
		if b.state == breakerHalfOpen || b.failures >= b.config.Threshold {
			b.state = breakerOpen
		}

		return
	}

	switch b.state {
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = breakerClosed
			b.failures = 0
		}
	case breakerClosed:
		b.failures = 0
	case breakerOpen:
	}
}

// CircuitBreakerRequestInterceptor rejects requests with
// ErrCircuitBreakerOpen while the circuit is open.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		return breaker.allow()
	}
}

// CircuitBreakerResponseInterceptor feeds call outcomes into the circuit.
// Transport failures and 5xx responses count against the service; 4xx are
// the caller's problem and leave the circuit alone.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		breaker.observe(resp.Error != nil || resp.StatusCode >= 500)

		return nil
	}
}
