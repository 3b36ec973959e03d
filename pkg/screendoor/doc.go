// Package screendoor provides types, interfaces, and helpers for working with
// the Screendoor survey and response-collection API.
//
// # Overview
//
// The screendoor package defines the domain types (Project, ResponseField,
// Response), the typed request options and the interfaces of the resource
// clients. A concrete implementation is provided by the sdclient package:
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
//	  cli, err := sdclient.New(&screendoor.Config{APIKey: "secret"})
//	  if err != nil { log.Fatal(err) }
//
//	  fields, err := cli.ResponseFields().List(ctx, "42", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = fields
//	}
//
// # Pagination
//
// List endpoints report the next page through a Link header. Every List call
// returns a ListResponse whose Pagination names the next page, if any. Use a
// PaginationIterator to consume pages incrementally, or FetchAllPages (and the
// ListAll helpers) to collect everything:
//
//	it := cli.Responses().Iterate(ctx, "42", &screendoor.ListResponsesParams{PerPage: 100})
//	for it.HasNext() {
//	  resp, err := it.Next()
//	  if err != nil { break }
//	  _ = resp
//	}
//	if err := it.Err(); err != nil { /* handle error */ }
//
// # Errors
//
// Failures are reported as TransportError, UnexpectedStatusError,
// MalformedResponseError, APIReportedError or FileUploadError. Each matches a
// sentinel (ErrTransport, ...) with errors.Is; helpers such as IsNotFound and
// StatusCode cover the common branches.
//
// # Option overrides
//
// Create and update requests start from fixed defaults. The typed option
// structs can only override keys that exist in those defaults. ApplyOverrides
// keeps the same policy for callers that hold untyped option maps and reports
// the keys it dropped.
package screendoor
