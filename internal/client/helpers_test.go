package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	. "github.com/fivetwenty-io/screendoor/internal/client"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

// NewTestClient starts a server for handler and returns a client pointed at it.
func NewTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&screendoor.Config{APIKey: testAPIKey, Host: server.URL})
	require.NoError(t, err)

	return client
}

// writeJSON encodes payload as the response body.
func writeJSON(t *testing.T, writer http.ResponseWriter, payload interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(writer).Encode(payload))
}

// assertAuth checks the version and API key query parameters.
func assertAuth(t *testing.T, request *http.Request) {
	t.Helper()

	query := request.URL.Query()
	assert.Equal(t, []string{"0"}, query["v"])
	assert.Equal(t, []string{testAPIKey}, query["api_key"])
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      error
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(context.Context, *Client) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)
				assertAuth(t, request)

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			})

			result, err := getFunc(context.Background(), client)

			if testCase.WantErr != nil {
				require.ErrorIs(t, err, testCase.WantErr)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// pagedHandler serves pages of items with a Link header pointing at the next page.
func pagedHandler[T any](t *testing.T, expectedPath string, pages [][]T) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, expectedPath, request.URL.Path)
		assertAuth(t, request)

		page := 1
		if raw := request.URL.Query().Get("page"); raw != "" {
			page, _ = strconv.Atoi(raw)
		}

		if page < 1 || page > len(pages) {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		if page < len(pages) {
			next := *request.URL
			query := next.Query()
			query.Set("page", strconv.Itoa(page+1))
			next.RawQuery = query.Encode()
			writer.Header().Set("Link", "<http://"+request.Host+next.String()+`>; rel="next"`)
		}

		writeJSON(t, writer, pages[page-1])
	}
}
