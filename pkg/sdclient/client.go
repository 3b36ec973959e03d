// Package sdclient provides the main entry point for creating Screendoor API clients
package sdclient

import (
	"fmt"

	"github.com/fivetwenty-io/screendoor/internal/client"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// New creates a new Screendoor API client. Host and Version default to the
// hosted service when left empty.
func New(config *screendoor.Config) (screendoor.Client, error) {
	if config == nil {
		return nil, screendoor.ErrConfigRequired
	}

	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithAPIKey creates a client for the hosted service with default settings.
func NewWithAPIKey(apiKey string) (screendoor.Client, error) {
	return New(&screendoor.Config{APIKey: apiKey})
}
