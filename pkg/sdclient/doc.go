// Package sdclient provides the primary entry point for constructing a
// Screendoor API client that implements the screendoor.Client interface.
//
// It layers configuration defaults and the HTTP transport on top of the
// resource interfaces and types defined in the screendoor package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/screendoor/pkg/screendoor"
//	  "github.com/fivetwenty-io/screendoor/pkg/sdclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := sdclient.NewWithAPIKey("secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // Every response of project 42, following the Link header.
//	  all, err := cli.Responses().ListAll(ctx, "42", &screendoor.ListResponsesParams{PerPage: 100})
//	  if err != nil { log.Fatal(err) }
//	  _ = all
//	}
//
// The returned client is safe for concurrent use. It never retries; failures
// are returned as the typed errors documented in the screendoor package.
package sdclient
