package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	sdhttp "github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsesClient_List(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/projects/3/responses", request.URL.Path)
		assert.Equal(t, "v=0&api_key=test-key&sort=created_at&direction=desc&per_page=5&status=new", request.URL.RawQuery)

		writeJSON(t, writer, []map[string]interface{}{
			{"id": 1, "responses": map[string]interface{}{"12": "hi"}},
		})
	})

	list, err := client.Responses().List(context.Background(), "3", &screendoor.ListResponsesParams{
		Sort:      "created_at",
		Direction: "desc",
		PerPage:   5,
		Extra:     screendoor.Params{}.Add("status", "new"),
	})
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.JSONEq(t, `"hi"`, string(list.Resources[0].Responses["12"]))
	assert.Equal(t, 1, list.Pagination.Page)
}

func TestResponsesClient_ListAll(t *testing.T) {
	t.Parallel()

	pages := [][]screendoor.Response{
		{{ID: 1}, {ID: 2}},
		{{ID: 3}},
	}

	client := NewTestClient(t, pagedHandler(t, "/projects/3/responses", pages))

	responses, err := client.Responses().ListAll(context.Background(), "3", &screendoor.ListResponsesParams{Sort: "id"})
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, int64(3), responses[2].ID)
}

func TestResponsesClient_Iterate(t *testing.T) {
	t.Parallel()

	pages := [][]screendoor.Response{
		{{ID: 1}},
		{{ID: 2}},
	}

	client := NewTestClient(t, pagedHandler(t, "/projects/3/responses", pages))

	iter := client.Responses().Iterate(context.Background(), "3", nil)

	var ids []int64

	err := iter.ForEach(func(response screendoor.Response) error {
		ids = append(ids, response.ID)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	assert.Equal(t, 2, iter.PagesFetched())
}

func TestResponsesClient_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		format         string
		expectedFormat string
	}{
		{"default raw", "", "raw"},
		{"explicit", "human", "human"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/projects/3/responses/9", request.URL.Path)
				assert.Equal(t, tt.expectedFormat, request.URL.Query().Get("response_format"))
				writeJSON(t, writer, map[string]interface{}{"id": 9, "labels": []string{"vip"}})
			})

			response, err := client.Responses().Get(context.Background(), "3", "9", tt.format)
			require.NoError(t, err)
			assert.Equal(t, int64(9), response.ID)
			assert.Equal(t, []string{"vip"}, response.Labels)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestResponsesClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("form encoded with defaults", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/projects/3/responses", request.URL.Path)
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, sdhttp.ContentTypeForm, request.Header.Get("Content-Type"))
			require.NoError(t, request.ParseForm())

			assert.Equal(t, "hello", request.PostForm.Get("response_fields[12]"))
			assert.Equal(t, "true", request.PostForm.Get("skip_email_confirmation"))
			assert.Equal(t, "true", request.PostForm.Get("skip_notifications"))
			assert.Equal(t, "false", request.PostForm.Get("skip_validation"))

			writeJSON(t, writer, map[string]interface{}{"id": 77})
		})

		response, err := client.Responses().Create(context.Background(), "3",
			screendoor.ResponseFieldValues{"12": "hello"},
			&screendoor.CreateResponseOptions{SkipValidation: screendoor.Bool(false)})
		require.NoError(t, err)
		assert.Equal(t, int64(77), response.ID)
	})

	t.Run("api reported errors", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(t, writer, map[string]interface{}{"errors": map[string]interface{}{"12": "is required"}})
		})

		response, err := client.Responses().Create(context.Background(), "3", nil, nil)
		require.Error(t, err)
		assert.Nil(t, response)

		apiErr := &screendoor.APIReportedError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, []string{"12: is required"}, apiErr.Messages())
		assert.Contains(t, err.Error(), "creating response")
	})
}

func TestResponsesClient_Update(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/projects/3/responses/9", request.URL.Path)
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, sdhttp.ContentTypeJSON, request.Header.Get("Content-Type"))

		var body map[string]json.RawMessage

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.JSONEq(t, `{"12":"bye"}`, string(body["response_fields"]))
		assert.JSONEq(t, `true`, string(body["force_validation"]))
		assert.JSONEq(t, `[]`, string(body["labels"]))
		assert.JSONEq(t, `["approved"]`, string(body["status"]))

		writeJSON(t, writer, map[string]interface{}{"id": 9, "status": "approved"})
	})

	response, err := client.Responses().Update(context.Background(), "3", "9",
		screendoor.ResponseFieldValues{"12": "bye"},
		&screendoor.UpdateResponseOptions{ForceValidation: screendoor.Bool(true), Status: []string{"approved"}})
	require.NoError(t, err)
	assert.Equal(t, "approved", response.Status)
}

func TestResponsesClient_PathEscaping(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/projects/a%2Fb/responses/1", request.URL.EscapedPath())
		writeJSON(t, writer, map[string]interface{}{"id": 1})
	})

	_, err := client.Responses().Get(context.Background(), "a/b", "1", "")
	require.NoError(t, err)
}
