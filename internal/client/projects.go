package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// ProjectsClient implements screendoor.ProjectsClient.
type ProjectsClient struct {
	httpClient *http.Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(httpClient *http.Client) *ProjectsClient {
	return &ProjectsClient{
		httpClient: httpClient,
	}
}

// List implements screendoor.ProjectsClient.List.
func (c *ProjectsClient) List(ctx context.Context, siteID string, params *screendoor.QueryParams) (*screendoor.ListResponse[screendoor.Project], error) {
	path := fmt.Sprintf("/sites/%s/projects", segment(siteID))

	return listPage[screendoor.Project](ctx, c.httpClient, path, params.ToParams(), "projects")
}

// ListAll implements screendoor.ProjectsClient.ListAll.
func (c *ProjectsClient) ListAll(ctx context.Context, siteID string, params *screendoor.QueryParams) ([]screendoor.Project, error) {
	base := params.Clone()

	fetch := func(ctx context.Context, page int) (*screendoor.ListResponse[screendoor.Project], error) {
		return c.List(ctx, siteID, base.Clone().WithPage(page))
	}

	return screendoor.FetchAllPages(ctx, fetch, base.Page, screendoor.DefaultPaginationOptions())
}

// Get implements screendoor.ProjectsClient.Get.
func (c *ProjectsClient) Get(ctx context.Context, siteID, projectID string) (*screendoor.Project, error) {
	path := fmt.Sprintf("/sites/%s/projects/%s", segment(siteID), segment(projectID))

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	var project screendoor.Project

	err = json.Unmarshal(resp.Body, &project)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return &project, nil
}
