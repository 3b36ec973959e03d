package client_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	. "github.com/fivetwenty-io/screendoor/internal/client"
	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.add(msg) }
func (l *recordingLogger) Info(msg string, _ map[string]interface{})  { l.add(msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.add(msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.add(msg) }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(nil)
		require.ErrorIs(t, err, screendoor.ErrConfigRequired)
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		_, err := New(&screendoor.Config{APIKey: "   "})
		require.ErrorIs(t, err, screendoor.ErrAPIKeyRequired)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()

		client, err := New(&screendoor.Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultHost, client.Host())
		assert.NotNil(t, client.Projects())
		assert.NotNil(t, client.ResponseFields())
		assert.NotNil(t, client.Responses())
		assert.NotNil(t, client.Files())
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		client, err := New(&screendoor.Config{APIKey: "k", Host: "https://example.com/api/"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/api", client.Host())
	})

	t.Run("copies config", func(t *testing.T) {
		t.Parallel()

		config := &screendoor.Config{APIKey: "k", Host: "https://a"}

		client, err := New(config)
		require.NoError(t, err)

		config.Host = "https://b"
		assert.Equal(t, "https://a", client.Host())
	})

	t.Run("sends version and user agent", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "0", request.URL.Query().Get("v"))
			assert.Equal(t, constants.DefaultUserAgent, request.Header.Get("User-Agent"))
			writeJSON(t, writer, map[string]interface{}{"id": 1})
		})

		_, err := client.Projects().Get(context.Background(), "1", "1")
		require.NoError(t, err)
	})

	t.Run("debug logging through config logger", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		probe := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, map[string]interface{}{"id": 1})
		})

		client, err := New(&screendoor.Config{
			APIKey:      "k",
			Host:        probe.Host(),
			Version:     "2",
			Logger:      logger,
			Debug:       true,
			UserAgent:   "custom",
			HTTPTimeout: 5 * time.Second,
		})
		require.NoError(t, err)

		_, err = client.Projects().Get(context.Background(), "1", "1")
		require.NoError(t, err)
		assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages)
	})

	t.Run("pass-through http client", func(t *testing.T) {
		t.Parallel()

		probe := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, []interface{}{})
		})

		client, err := New(&screendoor.Config{
			APIKey:     "k",
			Host:       probe.Host(),
			HTTPClient: &http.Client{Timeout: time.Second},
		})
		require.NoError(t, err)

		list, err := client.Projects().List(context.Background(), "1", nil)
		require.NoError(t, err)
		assert.Empty(t, list.Resources)
	})
}

func TestClient_IndependentInstances(t *testing.T) {
	t.Parallel()

	var keys []string

	var mu sync.Mutex

	probe := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		mu.Lock()
		keys = append(keys, request.URL.Query().Get("api_key"))
		mu.Unlock()

		writeJSON(t, writer, map[string]interface{}{"id": 1})
	})

	first, err := New(&screendoor.Config{APIKey: "first", Host: probe.Host()})
	require.NoError(t, err)

	second, err := New(&screendoor.Config{APIKey: "second", Host: probe.Host()})
	require.NoError(t, err)

	_, err = first.Projects().Get(context.Background(), "1", "1")
	require.NoError(t, err)

	_, err = second.Projects().Get(context.Background(), "1", "1")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, keys)
}
