package client_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/fivetwenty-io/screendoor/internal/client"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[screendoor.Project]{
		{
			Name:         "found",
			ExpectedPath: "/sites/7/projects/42",
			StatusCode:   http.StatusOK,
			Response:     map[string]interface{}{"id": 42, "name": "Intake"},
		},
		{
			Name:         "not found",
			ExpectedPath: "/sites/7/projects/42",
			StatusCode:   http.StatusNotFound,
			Response:     map[string]interface{}{"id": 42},
			WantErr:      screendoor.ErrUnexpectedStatus,
			ErrMessage:   "getting project",
		},
		{
			Name:         "api errors",
			ExpectedPath: "/sites/7/projects/42",
			StatusCode:   http.StatusOK,
			Response:     map[string]interface{}{"errors": []string{"not permitted"}},
			WantErr:      screendoor.ErrAPIReported,
			ErrMessage:   "not permitted",
		},
	}

	RunGetTests(t, tests, func(ctx context.Context, client *Client) (*screendoor.Project, error) {
		return client.Projects().Get(ctx, "7", "42")
	})
}

func TestProjectsClient_GetDecodes(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(t, writer, map[string]interface{}{"id": 42, "name": "Intake", "status": "open"})
	})

	project, err := client.Projects().Get(context.Background(), "7", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), project.ID)
	assert.Equal(t, "Intake", project.Name)
	assert.Equal(t, "open", project.Status)
}

func TestProjectsClient_List(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/sites/7/projects", request.URL.Path)
		assert.Equal(t, "v=0&api_key=test-key&page=2&per_page=10", request.URL.RawQuery)

		writer.Header().Set("Link", `<https://h/api/sites/7/projects?page=3>; rel="next"`)
		writeJSON(t, writer, []map[string]interface{}{{"id": 1, "name": "a"}})
	})

	list, err := client.Projects().List(context.Background(), "7", screendoor.NewQueryParams().WithPage(2).WithPerPage(10))
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, 2, list.Pagination.Page)

	next, ok := list.Pagination.NextPage()
	require.True(t, ok)
	assert.Equal(t, 3, next)
}

func TestProjectsClient_ListAll(t *testing.T) {
	t.Parallel()

	pages := [][]screendoor.Project{
		{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		{{ID: 3, Name: "c"}},
	}

	client := NewTestClient(t, pagedHandler(t, "/sites/7/projects", pages))

	projects, err := client.Projects().ListAll(context.Background(), "7", nil)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "c", projects[2].Name)
}

func TestProjectsClient_ListMalformed(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`not json`))
	})

	_, err := client.Projects().List(context.Background(), "7", nil)
	require.ErrorIs(t, err, screendoor.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "listing projects")
}

func TestProjectsClient_ListAllIgnoresExtraPage(t *testing.T) {
	t.Parallel()

	pages := [][]screendoor.Project{
		{{ID: 1, Name: "a"}},
		{{ID: 2, Name: "b"}},
	}

	paged := pagedHandler(t, "/sites/7/projects", pages)

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Len(t, request.URL.Query()["page"], 1)
		paged(writer, request)
	})

	projects, err := client.Projects().ListAll(context.Background(), "7", screendoor.NewQueryParams().With("page", 5))
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "b", projects[1].Name)
}

func TestProjectsClient_ListReportsSentPage(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "3", request.URL.Query().Get("page"))
		writeJSON(t, writer, []map[string]interface{}{})
	})

	list, err := client.Projects().List(context.Background(), "7", screendoor.NewQueryParams().With("page", "3"))
	require.NoError(t, err)
	assert.Equal(t, 3, list.Pagination.Page)
}
