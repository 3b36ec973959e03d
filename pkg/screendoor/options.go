package screendoor

import (
	"sort"

	"github.com/fivetwenty-io/screendoor/internal/constants"
)

// Keys of the request bodies sent by Responses().Create and Responses().Update.
const (
	KeyResponseFields        = "response_fields"
	KeySkipEmailConfirmation = "skip_email_confirmation"
	KeySkipNotifications     = "skip_notifications"
	KeySkipValidation        = "skip_validation"
	KeyForceValidation       = "force_validation"
	KeyLabels                = "labels"
	KeyStatus                = "status"
)

// QueryParams holds the optional query parameters of the simple list endpoints.
// Extra parameters are passed through verbatim, after Page and PerPage.
type QueryParams struct {
	Page    int
	PerPage int
	Extra   Params
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPerPage sets the page size.
func (q *QueryParams) WithPerPage(perPage int) *QueryParams {
	q.PerPage = perPage

	return q
}

// With appends a pass-through parameter.
func (q *QueryParams) With(name string, value interface{}) *QueryParams {
	q.Extra = q.Extra.Add(name, value)

	return q
}

// ToParams renders the parameters in the order they are sent.
func (q *QueryParams) ToParams() Params {
	if q == nil {
		return nil
	}

	var params Params
	if q.Page > 0 {
		params = params.Add(constants.QueryPage, q.Page)
	}

	if q.PerPage > 0 {
		params = params.Add(constants.QueryPerPage, q.PerPage)
	}

	return append(params, passThrough(q.Extra, q.Page, q.PerPage)...)
}

// Clone returns a copy safe to mutate.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := *q
	clone.Extra = append(Params(nil), q.Extra...)

	return &clone
}

// ListResponsesParams holds the query parameters of the responses list endpoint.
type ListResponsesParams struct {
	Sort      string
	Direction string
	Page      int
	PerPage   int
	Extra     Params
}

// ToParams renders the parameters in the order they are sent.
func (p *ListResponsesParams) ToParams() Params {
	if p == nil {
		return nil
	}

	var params Params
	if p.Sort != "" {
		params = params.Add(constants.QuerySort, p.Sort)
	}

	if p.Direction != "" {
		params = params.Add(constants.QueryDirection, p.Direction)
	}

	if p.Page > 0 {
		params = params.Add(constants.QueryPage, p.Page)
	}

	if p.PerPage > 0 {
		params = params.Add(constants.QueryPerPage, p.PerPage)
	}

	return append(params, passThrough(p.Extra, p.Page, p.PerPage)...)
}

// passThrough drops extra page and per_page entries that a typed field
// already sets, so each is sent once.
func passThrough(extra Params, page, perPage int) Params {
	if page > 0 {
		extra = extra.Without(constants.QueryPage)
	}

	if perPage > 0 {
		extra = extra.Without(constants.QueryPerPage)
	}

	return extra
}

// Clone returns a copy safe to mutate.
func (p *ListResponsesParams) Clone() *ListResponsesParams {
	if p == nil {
		return &ListResponsesParams{}
	}

	clone := *p
	clone.Extra = append(Params(nil), p.Extra...)

	return &clone
}

// ResponseFieldValues maps a form field ID to the submitted answer.
type ResponseFieldValues map[string]interface{}

// CreateResponseOptions overrides the defaults sent when creating a response.
// Only these keys can be overridden; every nil field keeps its default of true.
type CreateResponseOptions struct {
	SkipEmailConfirmation *bool
	SkipNotifications     *bool
	SkipValidation        *bool
}

// CreateResponseBody builds the body of a create-response request.
func CreateResponseBody(fields ResponseFieldValues, opts *CreateResponseOptions) map[string]interface{} {
	if fields == nil {
		fields = ResponseFieldValues{}
	}

	body := map[string]interface{}{
		KeyResponseFields:        fields,
		KeySkipEmailConfirmation: true,
		KeySkipNotifications:     true,
		KeySkipValidation:        true,
	}

	if opts == nil {
		return body
	}

	if opts.SkipEmailConfirmation != nil {
		body[KeySkipEmailConfirmation] = *opts.SkipEmailConfirmation
	}

	if opts.SkipNotifications != nil {
		body[KeySkipNotifications] = *opts.SkipNotifications
	}

	if opts.SkipValidation != nil {
		body[KeySkipValidation] = *opts.SkipValidation
	}

	return body
}

// UpdateResponseOptions overrides the defaults sent when updating a response.
// A nil Labels or Status keeps the default empty list.
type UpdateResponseOptions struct {
	ForceValidation *bool
	Labels          []string
	Status          []string
}

// UpdateResponseBody builds the body of an update-response request.
func UpdateResponseBody(fields ResponseFieldValues, opts *UpdateResponseOptions) map[string]interface{} {
	if fields == nil {
		fields = ResponseFieldValues{}
	}

	body := map[string]interface{}{
		KeyResponseFields:  fields,
		KeyForceValidation: false,
		KeyLabels:          []string{},
		KeyStatus:          []string{},
	}

	if opts == nil {
		return body
	}

	if opts.ForceValidation != nil {
		body[KeyForceValidation] = *opts.ForceValidation
	}

	if opts.Labels != nil {
		body[KeyLabels] = opts.Labels
	}

	if opts.Status != nil {
		body[KeyStatus] = opts.Status
	}

	return body
}

// ApplyOverrides copies every override whose key already exists in defaults
// and leaves other keys out. It returns the dropped keys, sorted, so callers
// holding untyped option maps can report them.
func ApplyOverrides(defaults, overrides map[string]interface{}) []string {
	var dropped []string

	for key, value := range overrides {
		if _, ok := defaults[key]; !ok {
			dropped = append(dropped, key)

			continue
		}

		defaults[key] = value
	}

	sort.Strings(dropped)

	return dropped
}

// FileOptions describes an uploaded file.
type FileOptions struct {
	Filename    string
	ContentType string
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
