package screendoor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// ResponseGetter fetches a single response.
type ResponseGetter interface {
	Get(ctx context.Context, projectID, responseID, format string) (*Response, error)
}

// GetResponses fetches several responses of one project concurrently, with at
// most concurrency requests in flight. Results keep the order of responseIDs.
// The first failure cancels the remaining requests and is returned.
func GetResponses(
	ctx context.Context,
	getter ResponseGetter,
	projectID string,
	responseIDs []string,
	format string,
	concurrency int,
) ([]*Response, error) {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	results := make([]*Response, len(responseIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, responseID := range responseIDs {
		group.Go(func() error {
			response, err := getter.Get(groupCtx, projectID, responseID, format)
			if err != nil {
				return fmt.Errorf("response %s: %w", responseID, err)
			}

			results[i] = response

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}
