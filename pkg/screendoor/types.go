package screendoor

import (
	"encoding/json"
	"net/http"
)

// Project is a Screendoor project (a form and its responses).
type Project struct {
	ID        int64  `json:"id"                   yaml:"id"`
	Name      string `json:"name"                 yaml:"name"`
	Status    string `json:"status,omitempty"     yaml:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ResponseField is one field of a project's form.
type ResponseField struct {
	ID           int64                      `json:"id"                      yaml:"id"`
	Label        string                     `json:"label"                   yaml:"label"`
	FieldType    string                     `json:"field_type"              yaml:"field_type"`
	Required     bool                       `json:"required"                yaml:"required"`
	Blind        bool                       `json:"blind,omitempty"         yaml:"blind,omitempty"`
	AdminOnly    bool                       `json:"admin_only,omitempty"    yaml:"admin_only,omitempty"`
	CID          string                     `json:"cid,omitempty"           yaml:"cid,omitempty"`
	FieldOptions map[string]json.RawMessage `json:"field_options,omitempty" yaml:"-"`
}

// Response is a single submitted survey response. Answers are keyed by field ID
// and kept verbatim.
type Response struct {
	ID           int64                      `json:"id"                      yaml:"id"`
	SequentialID *int64                     `json:"sequential_id,omitempty" yaml:"sequential_id,omitempty"`
	ProjectID    *int64                     `json:"project_id,omitempty"    yaml:"project_id,omitempty"`
	PrettyID     string                     `json:"pretty_id,omitempty"     yaml:"pretty_id,omitempty"`
	Status       string                     `json:"status,omitempty"        yaml:"status,omitempty"`
	Labels       []string                   `json:"labels,omitempty"        yaml:"labels,omitempty"`
	Responses    map[string]json.RawMessage `json:"responses,omitempty"     yaml:"-"`
	SubmittedAt  string                     `json:"submitted_at,omitempty"  yaml:"submitted_at,omitempty"`
	CreatedAt    string                     `json:"created_at,omitempty"    yaml:"created_at,omitempty"`
	UpdatedAt    string                     `json:"updated_at,omitempty"    yaml:"updated_at,omitempty"`
}

// FileUploadResult is the payload returned by the file upload endpoint. OK is
// nil when the server omitted the field.
type FileUploadResult struct {
	OK     *bool           `json:"ok"                yaml:"ok"`
	FileID json.RawMessage `json:"file_id,omitempty" yaml:"-"`
}

// Succeeded reports whether the payload carries "ok": true.
func (r *FileUploadResult) Succeeded() bool {
	return r != nil && r.OK != nil && *r.OK
}

// ListResponse is one page of a list endpoint together with the transport
// metadata needed to continue paging.
type ListResponse[T any] struct {
	Resources  []T
	Pagination Pagination
	Headers    http.Header
}
