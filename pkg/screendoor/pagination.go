package screendoor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// Link relation names used by the API.
const (
	RelNext  = "next"
	RelPrev  = "prev"
	RelFirst = "first"
	RelLast  = "last"
)

// LinkRelation is one entry of a Link header.
type LinkRelation struct {
	URL    string
	Rel    string
	Params map[string]string
}

// Page returns the page number the link points at. The "page" query parameter
// of the URL wins over a "page" link attribute.
func (l LinkRelation) Page() (int, bool) {
	if parsed, err := url.Parse(l.URL); err == nil {
		if page, ok := parsePage(parsed.Query().Get(constants.QueryPage)); ok {
			return page, true
		}
	}

	return parsePage(l.Params[constants.QueryPage])
}

func parsePage(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}

	return page, true
}

// ParseLinkHeader parses an RFC 8288 style header such as
//
//	<https://host/api/projects/1/responses?page=2>; rel="next", <...?page=9>; rel="last"
//
// into a map keyed by relation. Entries that cannot be parsed are skipped; a
// space separated rel registers the link under each name.
func ParseLinkHeader(header string) map[string]LinkRelation {
	links := make(map[string]LinkRelation)

	for _, entry := range splitLinkEntries(header) {
		link, ok := parseLinkEntry(entry)
		if !ok {
			continue
		}

		for _, rel := range strings.Fields(link.Rel) {
			relLink := link
			relLink.Rel = rel
			links[rel] = relLink
		}
	}

	return links
}

// splitLinkEntries splits on commas that are outside <...> and quoted strings.
func splitLinkEntries(header string) []string {
	var (
		entries []string
		inURL   bool
		inQuote bool
		start   int
	)

	for i, r := range header {
		switch {
		case r == '<' && !inQuote:
			inURL = true
		case r == '>' && !inQuote:
			inURL = false
		case r == '"' && !inURL:
			inQuote = !inQuote
		case r == ',' && !inURL && !inQuote:
			entries = append(entries, header[start:i])
			start = i + 1
		}
	}

	return append(entries, header[start:])
}

func parseLinkEntry(entry string) (LinkRelation, bool) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return LinkRelation{}, false
	}

	end := strings.Index(entry, ">")
	if end < 0 {
		return LinkRelation{}, false
	}

	link := LinkRelation{
		URL:    strings.TrimSpace(entry[1:end]),
		Params: make(map[string]string),
	}

	for _, attr := range strings.Split(entry[end+1:], ";") {
		name, value, found := strings.Cut(strings.TrimSpace(attr), "=")
		if !found {
			continue
		}

		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.Trim(strings.TrimSpace(value), `"`)
		link.Params[name] = value
	}

	link.Rel = strings.ToLower(link.Params["rel"])
	if link.Rel == "" {
		return LinkRelation{}, false
	}

	return link, true
}

// Pagination is the paging state reported by one list response.
type Pagination struct {
	Page  int
	Links map[string]LinkRelation
}

// NewPagination reads the Link header of a list response fetched for page.
// Relations split over several Link header lines are combined.
func NewPagination(page int, headers http.Header) Pagination {
	return Pagination{
		Page:  page,
		Links: ParseLinkHeader(strings.Join(headers.Values("Link"), ", ")),
	}
}

// NextPage returns the page named by the "next" relation. A missing relation,
// or one without a usable page number, marks the last page.
func (p Pagination) NextPage() (int, bool) {
	link, ok := p.Links[RelNext]
	if !ok {
		return 0, false
	}

	return link.Page()
}

// PageFetcher fetches a single page of a list endpoint.
type PageFetcher[T any] func(ctx context.Context, page int) (*ListResponse[T], error)

// PaginationOptions bounds a multi-page traversal.
type PaginationOptions struct {
	// MaxPages caps the number of pages requested. Zero or less uses the default.
	MaxPages int
}

// DefaultPaginationOptions returns default pagination options.
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{MaxPages: constants.MaxPages}
}

// PaginationIterator walks a paged endpoint sequentially. Page N+1 is only
// requested once page N has been consumed.
type PaginationIterator[T any] struct {
	ctx      context.Context //nolint:containedctx // iterator outlives a single call
	fetch    PageFetcher[T]
	maxPages int
	nextPage int
	fetched  int
	seen     map[int]bool
	buffer   []T
	index    int
	done     bool
	err      error
}

// NewPaginationIterator creates an iterator starting at startPage, or page 1
// when startPage is not positive.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFetcher[T], startPage int, opts PaginationOptions) *PaginationIterator[T] {
	if startPage < constants.FirstPage {
		startPage = constants.FirstPage
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = constants.MaxPages
	}

	return &PaginationIterator[T]{
		ctx:      ctx,
		fetch:    fetch,
		maxPages: maxPages,
		nextPage: startPage,
		seen:     make(map[int]bool),
	}
}

// HasNext reports whether Next can return another item. It may fetch pages;
// a failed fetch ends the iteration and is reported by Next and Err.
func (it *PaginationIterator[T]) HasNext() bool {
	for it.index >= len(it.buffer) {
		if it.done || it.err != nil {
			return false
		}

		if it.fetchPage() != nil {
			return false
		}
	}

	return true
}

// Next returns the next item.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.buffer[it.index]
	it.index++

	return item, nil
}

// NextPage returns the remaining items of the current page, or fetches the
// next one. It returns ErrNoMoreItems once the last page has been consumed.
func (it *PaginationIterator[T]) NextPage() ([]T, error) {
	if it.err != nil {
		return nil, it.err
	}

	if it.index < len(it.buffer) {
		items := it.buffer[it.index:]
		it.index = len(it.buffer)

		return items, nil
	}

	if it.done {
		return nil, ErrNoMoreItems
	}

	err := it.fetchPage()
	if err != nil {
		return nil, err
	}

	items := it.buffer
	it.index = len(it.buffer)

	return items, nil
}

// All collects every remaining item. On error the partial result is dropped.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for {
		items, err := it.NextPage()
		if errors.Is(err, ErrNoMoreItems) {
			return all, nil
		}

		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}
}

// ForEach calls fn for every remaining item, stopping at the first error.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item := it.buffer[it.index]
		it.index++

		err := fn(item)
		if err != nil {
			return err
		}
	}

	return it.err
}

// Err returns the error that stopped the iteration, if any.
func (it *PaginationIterator[T]) Err() error {
	return it.err
}

// PagesFetched returns the number of pages requested so far.
func (it *PaginationIterator[T]) PagesFetched() int {
	return it.fetched
}

func (it *PaginationIterator[T]) fetchPage() error {
	page := it.nextPage

	switch {
	case it.ctx.Err() != nil:
		it.err = it.ctx.Err()
	case it.fetched >= it.maxPages:
		it.err = fmt.Errorf("%w: %d", ErrTooManyPages, it.maxPages)
	case it.seen[page]:
		it.err = fmt.Errorf("%w: page %d", ErrPaginationLoop, page)
	}

	if it.err != nil {
		return it.err
	}

	it.seen[page] = true

	resp, err := it.fetch(it.ctx, page)
	if err != nil {
		it.err = err

		return err
	}

	it.fetched++
	it.buffer = resp.Resources
	it.index = 0

	next, ok := resp.Pagination.NextPage()
	if ok {
		it.nextPage = next
	} else {
		it.done = true
	}

	return nil
}

// FetchAllPages fetches every page starting at startPage and returns the items
// in page order. The first failing page aborts the traversal and its error is
// returned unchanged, without the items gathered so far.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], startPage int, opts PaginationOptions) ([]T, error) {
	return NewPaginationIterator(ctx, fetch, startPage, opts).All()
}
