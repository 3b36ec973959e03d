package client_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFilesClient_Upload(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))

	t.Run("multipart upload", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/form_renderer/file", request.URL.Path)
			assert.Equal(t, "v=0&api_key=test-key&response_field_id=55", request.URL.RawQuery)
			assert.Equal(t, http.MethodPost, request.Method)
			require.NoError(t, request.ParseMultipartForm(1<<20))

			file, header, err := request.FormFile("file")
			require.NoError(t, err)

			defer file.Close()

			content, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "hello world", string(content))
			assert.Equal(t, "note.txt", header.Filename)
			assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))

			writeJSON(t, writer, map[string]interface{}{"ok": true, "file_id": 901})
		})

		result, err := client.Files().Upload(context.Background(), "55", encoded,
			screendoor.FileOptions{Filename: "note.txt", ContentType: "text/plain"})
		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		assert.JSONEq(t, "901", string(result.FileID))
	})

	t.Run("ok true with string file id", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"ok":true,"file_id":"abc123","extra":[1,2]}`))
		})

		result, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		assert.JSONEq(t, `"abc123"`, string(result.FileID))
	})

	t.Run("ok true without file id", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"ok":true}`))
		})

		result, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		assert.Empty(t, result.FileID)
	})

	t.Run("ok not a boolean", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"ok":"true"}`))
		})

		_, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		assert.True(t, screendoor.IsFileUpload(err))
	})

	t.Run("array payload", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`[true]`))
		})

		_, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		assert.True(t, screendoor.IsFileUpload(err))
	})

	t.Run("ok false", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, map[string]interface{}{"ok": false})
		})

		result, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{Filename: "a"})
		require.ErrorIs(t, err, screendoor.ErrFileUpload)
		assert.Nil(t, result)

		uploadErr := &screendoor.FileUploadError{}
		require.ErrorAs(t, err, &uploadErr)
		assert.JSONEq(t, `{"ok":false}`, string(uploadErr.Result))
	})

	t.Run("ok missing", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, map[string]interface{}{"file_id": 1})
		})

		_, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		assert.True(t, screendoor.IsFileUpload(err))
	})

	t.Run("http failure precedes upload check", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusRequestEntityTooLarge)
		})

		_, err := client.Files().Upload(context.Background(), "55", encoded, screendoor.FileOptions{})
		require.ErrorIs(t, err, screendoor.ErrUnexpectedStatus)
		assert.False(t, screendoor.IsFileUpload(err))
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Parallel()

		calls := 0
		client := NewTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			calls++
		})

		_, err := client.Files().Upload(context.Background(), "55", "!!!", screendoor.FileOptions{})
		require.ErrorIs(t, err, screendoor.ErrInvalidBase64File)
		assert.Equal(t, 0, calls)
	})
}
