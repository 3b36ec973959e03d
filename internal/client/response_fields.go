package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// ResponseFieldsClient implements screendoor.ResponseFieldsClient.
type ResponseFieldsClient struct {
	httpClient *http.Client
}

// NewResponseFieldsClient creates a new response fields client.
func NewResponseFieldsClient(httpClient *http.Client) *ResponseFieldsClient {
	return &ResponseFieldsClient{
		httpClient: httpClient,
	}
}

// List implements screendoor.ResponseFieldsClient.List.
func (c *ResponseFieldsClient) List(ctx context.Context, projectID string, params *screendoor.QueryParams) (*screendoor.ListResponse[screendoor.ResponseField], error) {
	path := fmt.Sprintf("/projects/%s/response_fields", segment(projectID))

	return listPage[screendoor.ResponseField](ctx, c.httpClient, path, params.ToParams(), "response fields")
}

// ListAll implements screendoor.ResponseFieldsClient.ListAll.
func (c *ResponseFieldsClient) ListAll(ctx context.Context, projectID string, params *screendoor.QueryParams) ([]screendoor.ResponseField, error) {
	base := params.Clone()

	fetch := func(ctx context.Context, page int) (*screendoor.ListResponse[screendoor.ResponseField], error) {
		return c.List(ctx, projectID, base.Clone().WithPage(page))
	}

	return screendoor.FetchAllPages(ctx, fetch, base.Page, screendoor.DefaultPaginationOptions())
}
