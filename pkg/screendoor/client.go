package screendoor

import (
	"context"
	"net/http"
	"time"
)

// ProjectsClient lists and reads projects of a site.
type ProjectsClient interface {
	List(ctx context.Context, siteID string, params *QueryParams) (*ListResponse[Project], error)
	ListAll(ctx context.Context, siteID string, params *QueryParams) ([]Project, error)
	Get(ctx context.Context, siteID, projectID string) (*Project, error)
}

// ResponseFieldsClient lists the form fields of a project.
type ResponseFieldsClient interface {
	List(ctx context.Context, projectID string, params *QueryParams) (*ListResponse[ResponseField], error)
	ListAll(ctx context.Context, projectID string, params *QueryParams) ([]ResponseField, error)
}

// ResponsesClient reads and writes the responses of a project.
type ResponsesClient interface {
	List(ctx context.Context, projectID string, params *ListResponsesParams) (*ListResponse[Response], error)
	ListAll(ctx context.Context, projectID string, params *ListResponsesParams) ([]Response, error)
	Iterate(ctx context.Context, projectID string, params *ListResponsesParams) *PaginationIterator[Response]
	Get(ctx context.Context, projectID, responseID, format string) (*Response, error)
	Create(ctx context.Context, projectID string, fields ResponseFieldValues, opts *CreateResponseOptions) (*Response, error)
	Update(ctx context.Context, projectID, responseID string, fields ResponseFieldValues, opts *UpdateResponseOptions) (*Response, error)
}

// FilesClient uploads files for file fields.
type FilesClient interface {
	Upload(ctx context.Context, fieldID, encodedFile string, opts FileOptions) (*FileUploadResult, error)
}

// Client is a Screendoor API client.
type Client interface {
	Projects() ProjectsClient
	ResponseFields() ResponseFieldsClient
	Responses() ResponsesClient
	Files() FilesClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a screendoor.Client.
//
// Only APIKey is required. The key is sent as the api_key query parameter of
// every request; the client never mutates the config after construction, so a
// single Config may back any number of clients.
//
// # Timeouts, retries, and cancellation
//
// Per-request deadlines should be controlled via the context passed to client
// methods. HTTPTimeout and HTTPClient are handed to the transport unchanged.
// The client never retries: every failure is returned to the caller.
type Config struct {
	// APIKey: secret identifying the caller.
	APIKey string

	// Host: API base URL without trailing slash. Defaults to the hosted service.
	Host string
	// Version: value of the "v" query parameter. Defaults to "0".
	Version string

	// HTTPTimeout: overall timeout of a single HTTP exchange. Zero uses the default.
	HTTPTimeout time.Duration
	// HTTPClient: optional underlying client, e.g. to customise TLS or proxies.
	HTTPClient *http.Client
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Interceptors: optional hooks run before and after every request.
	Interceptors *InterceptorChain
}
