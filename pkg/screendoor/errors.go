package screendoor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds. Every typed error below matches exactly one of these with errors.Is.
var (
	ErrTransport         = errors.New("transport error")
	ErrUnexpectedStatus  = errors.New("unexpected status in response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPIReported       = errors.New("API reported errors")
	ErrFileUpload        = errors.New("file upload error")
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrNoMoreItems       = errors.New("no more items")
	ErrTooManyPages      = errors.New("pagination exceeded the maximum number of pages")
	ErrPaginationLoop    = errors.New("pagination returned a page that was already fetched")
	ErrInvalidBase64File = errors.New("file content is not valid base64")
)

// TransportError reports a failure to complete the HTTP exchange. StatusCode and
// Headers are set when the transport produced a partial response.
type TransportError struct {
	Err        error
	StatusCode int
	Headers    http.Header
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UnexpectedStatusError reports a response whose status code is not 200. The
// body is not interpreted.
type UnexpectedStatusError struct {
	StatusCode int
	Headers    http.Header
}

// Error implements the error interface.
func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is matches ErrUnexpectedStatus.
func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// MalformedResponseError reports a 200 response whose body is not valid JSON.
type MalformedResponseError struct {
	Err  error
	Body []byte
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedResponse, e.Err)
}

// Unwrap returns the JSON decoding error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// APIReportedError reports a 200 response whose payload carries a top-level
// "errors" field. Errors holds that field verbatim.
type APIReportedError struct {
	Errors  json.RawMessage
	Headers http.Header
}

// Error implements the error interface.
func (e *APIReportedError) Error() string {
	messages := e.Messages()
	if len(messages) == 0 {
		return ErrAPIReported.Error()
	}

	return fmt.Sprintf("%s: %s", ErrAPIReported, strings.Join(messages, "; "))
}

// Is matches ErrAPIReported.
func (e *APIReportedError) Is(target error) bool {
	return target == ErrAPIReported
}

// Messages flattens the errors field into human readable strings. Strings are
// returned as-is, arrays element by element and objects as "key: message".
func (e *APIReportedError) Messages() []string {
	var decoded interface{}

	err := json.Unmarshal(e.Errors, &decoded)
	if err != nil {
		return []string{string(e.Errors)}
	}

	return flattenMessages("", decoded)
}

func flattenMessages(prefix string, value interface{}) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		if prefix != "" {
			return []string{prefix + ": " + typed}
		}

		return []string{typed}
	case []interface{}:
		var out []string
		for _, item := range typed {
			out = append(out, flattenMessages(prefix, item)...)
		}

		return out
	case map[string]interface{}:
		keys := sortedKeys(typed)

		var out []string
		for _, key := range keys {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}

			out = append(out, flattenMessages(name, typed[key])...)
		}

		return out
	default:
		return flattenMessages(prefix, FormatValue(typed))
	}
}

// FileUploadError reports an upload that completed at the HTTP level but whose
// payload does not carry "ok": true.
type FileUploadError struct {
	Result json.RawMessage
}

// Error implements the error interface.
func (e *FileUploadError) Error() string {
	if len(e.Result) == 0 {
		return ErrFileUpload.Error()
	}

	return fmt.Sprintf("%s: %s", ErrFileUpload, string(e.Result))
}

// Is matches ErrFileUpload.
func (e *FileUploadError) Is(target error) bool {
	return target == ErrFileUpload
}

// IsTransport checks if the error is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnexpectedStatus checks if the error is a non-200 response.
func IsUnexpectedStatus(err error) bool {
	return errors.Is(err, ErrUnexpectedStatus)
}

// IsMalformedResponse checks if the error is an undecodable response body.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsAPIReported checks if the error carries API reported errors.
func IsAPIReported(err error) bool {
	return errors.Is(err, ErrAPIReported)
}

// IsFileUpload checks if the error is a rejected file upload.
func IsFileUpload(err error) bool {
	return errors.Is(err, ErrFileUpload)
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)

	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// StatusCode returns the HTTP status carried by an UnexpectedStatusError or a
// TransportError, or 0.
func StatusCode(err error) int {
	statusErr := &UnexpectedStatusError{}
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}

	return 0
}
