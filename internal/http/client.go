// Package http executes Screendoor API requests: it builds the authenticated
// URL, encodes the body for the verb, performs the exchange and classifies the
// response into a payload or one of the screendoor error types.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   screendoor.Params
	Body    interface{}
	Headers map[string]string
}

// Response is a successful exchange: status 200 with a JSON body that carries
// no top-level "errors" field.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client performs requests against one API host with one API key. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	host         string
	version      string
	apiKey       string
	httpClient   *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *screendoor.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
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

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *screendoor.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithTimeout sets the timeout of the underlying *http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a client for host (no trailing slash).
func NewClient(host, version, apiKey string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}

	client := &Client{
		host:       host,
		version:    version,
		apiKey:     apiKey,
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// neverRetry hands every outcome back to the caller untouched.
func neverRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// URL returns the absolute, authenticated URL for path and params.
func (c *Client) URL(path string, params screendoor.Params) string {
	return BuildURL(c.host, c.version, c.apiKey, path, params)
}

// Do performs the request. Errors are, in order of detection:
// *screendoor.TransportError, *screendoor.UnexpectedStatusError,
// *screendoor.MalformedResponseError and *screendoor.APIReportedError. The
// response is returned alongside the error whenever one was received.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	payload, contentType, err := encodeBody(req.Method, req.Body)
	if err != nil {
		return nil, err
	}

	fullURL := c.URL(req.Path, req.Query)

	info := &screendoor.RequestInfo{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
	}

	for key, value := range req.Headers {
		info.Headers.Set(key, value)
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, info)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if payload != nil {
		rawBody = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", redactError(err))
	}

	httpReq.Header.Set("Accept", ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, values := range info.Headers {
		httpReq.Header[key] = values
	}

	c.logRequest(req, fullURL, len(payload))

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		transportErr := &screendoor.TransportError{Err: redactError(err)}

		if httpResp != nil {
			transportErr.StatusCode = httpResp.StatusCode
			transportErr.Headers = httpResp.Header
			_ = httpResp.Body.Close()
		}

		c.logFailure(req, transportErr)

		return nil, c.intercept(ctx, info, &screendoor.ResponseInfo{
			StatusCode: transportErr.StatusCode,
			Headers:    transportErr.Headers,
			Error:      transportErr,
		})
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		transportErr := &screendoor.TransportError{
			Err:        fmt.Errorf("reading response body: %w", err),
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
		}

		c.logFailure(req, transportErr)

		return nil, c.intercept(ctx, info, &screendoor.ResponseInfo{
			StatusCode: transportErr.StatusCode,
			Headers:    transportErr.Headers,
			Error:      transportErr,
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(req, resp, time.Since(start))

	return resp, c.intercept(ctx, info, &screendoor.ResponseInfo{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      classify(resp),
	})
}

// intercept runs the response interceptors and returns the outcome error. An
// interceptor error is reported only when the request itself succeeded.
func (c *Client) intercept(ctx context.Context, info *screendoor.RequestInfo, outcome *screendoor.ResponseInfo) error {
	err := c.interceptors.ExecuteResponseInterceptors(ctx, info, outcome)
	if outcome.Error != nil {
		return outcome.Error
	}

	return err
}

// redactError hides the API key embedded in *url.Error messages.
func redactError(err error) error {
	urlErr := &url.Error{}
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}

	return err
}

// classify applies the success criteria: status first, then JSON validity,
// then the "errors" field.
func classify(resp *Response) error {
	if resp.StatusCode != http.StatusOK {
		return &screendoor.UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
		}
	}

	var payload json.RawMessage

	err := json.Unmarshal(resp.Body, &payload)
	if err != nil {
		return &screendoor.MalformedResponseError{Err: err, Body: resp.Body}
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var envelope map[string]json.RawMessage

	err = json.Unmarshal(trimmed, &envelope)
	if err != nil {
		return &screendoor.MalformedResponseError{Err: err, Body: resp.Body}
	}

	if errorsField, ok := envelope["errors"]; ok {
		return &screendoor.APIReportedError{Errors: errorsField, Headers: resp.Headers}
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query screendoor.Params) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a form or multipart body.
func (c *Client) Post(ctx context.Context, path string, query screendoor.Params, body FormBody) (*Response, error) {
	req := &Request{
		Method: http.MethodPost,
		Path:   path,
		Query:  query,
	}

	if body != nil {
		req.Body = body
	}

	return c.Do(ctx, req)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query screendoor.Params, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Query:  query,
		Body:   body,
	})
}

func (c *Client) logRequest(req *Request, fullURL string, size int) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":    req.Method,
		"url":       redactURL(fullURL),
		"body_size": size,
	})
}

func (c *Client) logResponse(req *Request, resp *Response, duration time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": resp.StatusCode,
		"body_size":   len(resp.Body),
		"duration":    duration.String(),
	})
}

func (c *Client) logFailure(req *Request, err error) {
	if c.logger == nil {
		return
	}

	c.logger.Error("HTTP Request Failed", map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"error":  err.Error(),
	})
}
