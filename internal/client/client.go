package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// Client implements the screendoor.Client interface.
type Client struct {
	httpClient *http.Client
	config     screendoor.Config

	// Resource clients
	projects       screendoor.ProjectsClient
	responseFields screendoor.ResponseFieldsClient
	responses      screendoor.ResponsesClient
	files          screendoor.FilesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *screendoor.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	} else if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// New creates a new Screendoor API client. The config is copied; later changes
// to it do not affect the client.
func New(config *screendoor.Config) (*Client, error) {
	if config == nil {
		return nil, screendoor.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIKey) == "" {
		return nil, screendoor.ErrAPIKeyRequired
	}

	resolved := *config
	if resolved.Host == "" {
		resolved.Host = constants.DefaultHost
	}

	resolved.Host = strings.TrimSuffix(resolved.Host, "/")

	if resolved.Version == "" {
		resolved.Version = constants.DefaultAPIVersion
	}

	httpClient := http.NewClient(resolved.Host, resolved.Version, resolved.APIKey, createHTTPClientOptions(&resolved)...)

	client := &Client{
		httpClient: httpClient,
		config:     resolved,
	}

	client.initializeResourceClients()

	return client, nil
}

// Projects implements screendoor.Client.Projects.
func (c *Client) Projects() screendoor.ProjectsClient {
	return c.projects
}

// ResponseFields implements screendoor.Client.ResponseFields.
func (c *Client) ResponseFields() screendoor.ResponseFieldsClient {
	return c.responseFields
}

// Responses implements screendoor.Client.Responses.
func (c *Client) Responses() screendoor.ResponsesClient {
	return c.responses
}

// Files implements screendoor.Client.Files.
func (c *Client) Files() screendoor.FilesClient {
	return c.files
}

// Host returns the API host the client talks to.
func (c *Client) Host() string {
	return c.config.Host
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.projects = NewProjectsClient(c.httpClient)
	c.responseFields = NewResponseFieldsClient(c.httpClient)
	c.responses = NewResponsesClient(c.httpClient)
	c.files = NewFilesClient(c.httpClient)
}

// loggerAdapter adapts screendoor.Logger to http.Logger.
type loggerAdapter struct {
	logger screendoor.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

// segment escapes a caller supplied ID for use as a path segment.
func segment(id string) string {
	return url.PathEscape(id)
}

// listPage fetches one page of a list endpoint and decodes the array payload.
// The page recorded in the pagination state is the one actually sent.
func listPage[T any](ctx context.Context, httpClient *http.Client, path string, params screendoor.Params, what string) (*screendoor.ListResponse[T], error) {
	resp, err := httpClient.Get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}

	var resources []T

	err = json.Unmarshal(resp.Body, &resources)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", what, err)
	}

	return &screendoor.ListResponse[T]{
		Resources:  resources,
		Pagination: screendoor.NewPagination(sentPage(params), resp.Headers),
		Headers:    resp.Headers,
	}, nil
}

// sentPage returns the page number carried by params, defaulting to the first page.
func sentPage(params screendoor.Params) int {
	value, ok := params.Get(constants.QueryPage)
	if !ok {
		return constants.FirstPage
	}

	page, err := strconv.Atoi(screendoor.FormatValue(value))
	if err != nil || page < constants.FirstPage {
		return constants.FirstPage
	}

	return page
}
