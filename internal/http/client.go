package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// defaultUserAgent identifies this client to the service.
const defaultUserAgent = "sight-go"

// Logger captures the transport's structured debug output.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenManager supplies the session token attached to every request. It is
// satisfied by the managers in internal/auth.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Request describes a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response carries the raw result of an API call.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client is the low-level HTTP client for the Sight API. It handles request
// construction, the token header, JSON bodies, retries on transient failures
// and debug logging.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *sight.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes retries for transient failures. The service rate
// limits aggressive callers, so retryMax also bounds how long a throttled
// request keeps trying.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// WithTimeout bounds each request attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithTLSConfig overrides TLS settings, e.g. to reach a private deployment
// with its own certificate authority.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *Client) {
		transport := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
		transport.TLSClientConfig = tlsConfig
		c.httpClient.HTTPClient.Transport = transport
	}
}

// WithInterceptors installs a request/response interceptor chain around
// every call. Caching, metrics and rate limiting plug in here.
func WithInterceptors(chain *sight.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new Sight API transport client. A nil tokenManager
// sends requests unauthenticated, which the service only accepts on the
// login endpoint.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Exhausted retries hand back the last response instead of a bare
	// error, so status handling below stays uniform.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request against the API. Non-2xx responses return both the
// response and the parsed API error. When the service stops accepting the
// session token, the token manager is asked for a fresh one and the request
// is retried once.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	chainReq, cached, err := c.runRequestInterceptors(ctx, req)
	if err != nil {
		return nil, err
	}

	if cached != nil {
		return cached, nil
	}

	resp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == nethttp.StatusUnauthorized && c.tokenManager != nil {
		refreshErr := c.tokenManager.RefreshToken(ctx)
		if refreshErr == nil {
			resp, err = c.execute(ctx, req)
			if err != nil {
				return nil, err
			}
		}
	}

	var apiErr error
	if resp.StatusCode >= nethttp.StatusBadRequest {
		apiErr = sight.ParseAPIError(resp.StatusCode, resp.Body)
	}

	err = c.runResponseInterceptors(ctx, chainReq, resp, apiErr)
	if err != nil {
		return nil, err
	}

	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// runRequestInterceptors passes the request through the chain. A chain
// entry may satisfy the request from cache, in which case the cached
// response is returned and nothing goes on the wire.
func (c *Client) runRequestInterceptors(ctx context.Context, req *Request) (*sight.Request, *Response, error) {
	if c.interceptors == nil {
		return nil, nil, nil
	}

	chainReq := c.chainRequest(req)

	err := c.interceptors.ExecuteRequestInterceptors(ctx, chainReq)
	if err != nil {
		return nil, nil, err
	}

	if data, ok := chainReq.Metadata["cached_response"].([]byte); ok {
		cached := &Response{
			StatusCode: nethttp.StatusOK,
			Headers:    make(nethttp.Header),
			Body:       data,
		}

		return chainReq, cached, nil
	}

	// The chain's view of the headers is what goes on the wire.
	for key := range chainReq.Headers {
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}

		req.Headers[key] = chainReq.Headers.Get(key)
	}

	return chainReq, nil, nil
}

func (c *Client) runResponseInterceptors(ctx context.Context, chainReq *sight.Request, resp *Response, apiErr error) error {
	if c.interceptors == nil || chainReq == nil {
		return nil
	}

	chainResp := &sight.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      apiErr,
	}

	return c.interceptors.ExecuteResponseInterceptors(ctx, chainReq, chainResp)
}

// chainRequest builds the interceptor view of a request. The path carries
// the encoded query so cache keys tell pages and filters apart.
func (c *Client) chainRequest(req *Request) *sight.Request {
	path := req.Path
	if len(req.Query) > 0 {
		path += "?" + req.Query.Encode()
	}

	headers := make(nethttp.Header)
	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return &sight.Request{
		Method:   req.Method,
		Path:     path,
		Headers:  headers,
		Metadata: make(map[string]interface{}),
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodDelete,
		Path:   path,
	})
}

// execute sends a single request and reads the full response body.
func (c *Client) execute(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logRequest(req)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(req, resp)

	return resp, nil
}

// buildRequest assembles the outgoing request with default headers, the
// session token and any caller-provided headers.
func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var rawBody interface{}

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		rawBody = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// The service authenticates with a bare token header rather than a
	// standard Authorization scheme.
	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting auth token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("token", token)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) logRequest(req *Request) {
	if !c.debug || c.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
	}

	if len(req.Query) > 0 {
		fields["query"] = req.Query.Encode()
	}

	c.logger.Debug("HTTP Request", fields)
}

func (c *Client) logResponse(req *Request, resp *Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"status": resp.StatusCode,
		"size":   len(resp.Body),
	})
}
