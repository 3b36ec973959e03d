package screendoor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// RequestInfo describes an outgoing request as seen by interceptors. Path is
// the endpoint path without host or query, so the API key is never exposed.
type RequestInfo struct {
	Method   string
	Path     string
	Headers  http.Header
	Metadata map[string]interface{}
}

// ResponseInfo describes the outcome of a request. Error holds the classified
// error, if any; StatusCode is zero when no response was received.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent. Returning an error
// aborts the request.
type RequestInterceptor func(ctx context.Context, req *RequestInfo) error

// ResponseInterceptor is called after a request completes, successfully or not.
type ResponseInterceptor func(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) *InterceptorChain {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return c
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) *InterceptorChain {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return c
}

// ExecuteRequestInterceptors runs all request interceptors in order and stops
// at the first error.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *RequestInfo) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in order and stops
// at the first error.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *RequestInfo, resp *ResponseInfo) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// HeaderInterceptor adds fixed headers to every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *RequestInfo) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(_ context.Context, req *RequestInfo) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, at error level when the request
// failed.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(_ context.Context, req *RequestInfo, resp *ResponseInfo) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// Metrics holds call statistics for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector aggregates Metrics per "METHOD path". It is safe for
// concurrent use.
type MetricsCollector struct {
	mu      sync.Mutex
	metrics map[string]*Metrics
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or nil.
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

// Endpoints returns the number of distinct endpoints seen.
func (m *MetricsCollector) Endpoints() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.metrics)
}

// Register adds the collector's interceptors to chain.
func (m *MetricsCollector) Register(chain *InterceptorChain) *InterceptorChain {
	return chain.
		AddRequestInterceptor(m.requestInterceptor).
		AddResponseInterceptor(m.responseInterceptor)
}

func (m *MetricsCollector) requestInterceptor(_ context.Context, req *RequestInfo) error {
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}

	req.Metadata["start_time"] = time.Now()

	return nil
}

func (m *MetricsCollector) responseInterceptor(_ context.Context, req *RequestInfo, resp *ResponseInfo) error {
	endpoint := req.Method + " " + req.Path

	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
		metrics.TotalLatency += time.Since(startTime)
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if resp.Error != nil {
		metrics.TotalErrors++
	}

	return nil
}
