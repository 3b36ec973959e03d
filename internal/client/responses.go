package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// ResponsesClient implements screendoor.ResponsesClient.
type ResponsesClient struct {
	httpClient *http.Client
}

// NewResponsesClient creates a new responses client.
func NewResponsesClient(httpClient *http.Client) *ResponsesClient {
	return &ResponsesClient{
		httpClient: httpClient,
	}
}

// List implements screendoor.ResponsesClient.List.
func (c *ResponsesClient) List(ctx context.Context, projectID string, params *screendoor.ListResponsesParams) (*screendoor.ListResponse[screendoor.Response], error) {
	path := fmt.Sprintf("/projects/%s/responses", segment(projectID))

	return listPage[screendoor.Response](ctx, c.httpClient, path, params.ToParams(), "responses")
}

// ListAll implements screendoor.ResponsesClient.ListAll.
func (c *ResponsesClient) ListAll(ctx context.Context, projectID string, params *screendoor.ListResponsesParams) ([]screendoor.Response, error) {
	return c.Iterate(ctx, projectID, params).All()
}

// Iterate implements screendoor.ResponsesClient.Iterate.
func (c *ResponsesClient) Iterate(ctx context.Context, projectID string, params *screendoor.ListResponsesParams) *screendoor.PaginationIterator[screendoor.Response] {
	base := params.Clone()

	fetch := func(ctx context.Context, page int) (*screendoor.ListResponse[screendoor.Response], error) {
		pageParams := base.Clone()
		pageParams.Page = page

		return c.List(ctx, projectID, pageParams)
	}

	return screendoor.NewPaginationIterator(ctx, fetch, base.Page, screendoor.DefaultPaginationOptions())
}

// Get implements screendoor.ResponsesClient.Get. An empty format requests the
// raw format.
func (c *ResponsesClient) Get(ctx context.Context, projectID, responseID, format string) (*screendoor.Response, error) {
	if format == "" {
		format = constants.ResponseFormatRaw
	}

	path := fmt.Sprintf("/projects/%s/responses/%s", segment(projectID), segment(responseID))
	query := screendoor.Params{}.Add(constants.QueryResponseFormat, format)

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting response: %w", err)
	}

	return decodeResponse(resp)
}

// Create implements screendoor.ResponsesClient.Create. The body is sent
// form-encoded.
func (c *ResponsesClient) Create(
	ctx context.Context,
	projectID string,
	fields screendoor.ResponseFieldValues,
	opts *screendoor.CreateResponseOptions,
) (*screendoor.Response, error) {
	path := fmt.Sprintf("/projects/%s/responses", segment(projectID))
	body := screendoor.CreateResponseBody(fields, opts)

	resp, err := c.httpClient.Post(ctx, path, nil, http.FormBody(body))
	if err != nil {
		return nil, fmt.Errorf("creating response: %w", err)
	}

	return decodeResponse(resp)
}

// Update implements screendoor.ResponsesClient.Update. The body is sent as JSON.
func (c *ResponsesClient) Update(
	ctx context.Context,
	projectID, responseID string,
	fields screendoor.ResponseFieldValues,
	opts *screendoor.UpdateResponseOptions,
) (*screendoor.Response, error) {
	path := fmt.Sprintf("/projects/%s/responses/%s", segment(projectID), segment(responseID))
	body := screendoor.UpdateResponseBody(fields, opts)

	resp, err := c.httpClient.Put(ctx, path, nil, body)
	if err != nil {
		return nil, fmt.Errorf("updating response: %w", err)
	}

	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (*screendoor.Response, error) {
	var response screendoor.Response

	err := json.Unmarshal(resp.Body, &response)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &response, nil
}
