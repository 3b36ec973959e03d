package constants

import "time"

// Screendoor API endpoint.
const (
	// DefaultHost is the base URL of the hosted Screendoor API.
	DefaultHost = "https://screendoor.dobt.co/api"

	// DefaultAPIVersion is sent as the "v" query parameter on every request.
	DefaultAPIVersion = "0"

	// DefaultUserAgent is sent unless the config overrides it.
	DefaultUserAgent = "screendoor-go"
)

// Query parameter names shared by the URL builder and endpoint methods.
const (
	QueryVersion         = "v"
	QueryAPIKey          = "api_key"
	QueryPage            = "page"
	QueryPerPage         = "per_page"
	QuerySort            = "sort"
	QueryDirection       = "direction"
	QueryResponseFormat  = "response_format"
	QueryResponseFieldID = "response_field_id"
)

// Response formats accepted by the single-response endpoint.
const (
	ResponseFormatRaw = "raw"
)

// Multipart form part that carries an uploaded file.
const (
	FilePartName = "file"
)

// Members of the file upload payload.
const (
	UploadOKKey     = "ok"
	UploadFileIDKey = "file_id"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Pagination limits.
const (
	// FirstPage is the page number used when the caller does not supply one.
	FirstPage = 1

	// StandardPageSize is the common page size for API responses.
	StandardPageSize = 25

	// MaxPages is used to prevent infinite loops in pagination.
	MaxPages = 1000
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit limits concurrent operations.
	DefaultConcurrencyLimit = 4
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Logging.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"

	// Log file rotation, in megabytes, files and days.
	LogMaxSizeMB  = 100
	LogMaxBackups = 3
	LogMaxAgeDays = 28
)

// CLI configuration.
const (
	EnvPrefix      = "SCREENDOOR"
	ConfigDirName  = ".screendoor"
	ConfigFileName = "config.yml"
	MaskedValue    = "***"
)

// Output formatting.
const (
	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)
