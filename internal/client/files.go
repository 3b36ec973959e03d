package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/internal/http"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// FilesClient implements screendoor.FilesClient.
type FilesClient struct {
	httpClient *http.Client
}

// NewFilesClient creates a new files client.
func NewFilesClient(httpClient *http.Client) *FilesClient {
	return &FilesClient{
		httpClient: httpClient,
	}
}

// Upload implements screendoor.FilesClient.Upload. encodedFile is standard
// base64; it is decoded and sent as the multipart "file" part. A payload
// without "ok": true fails with *screendoor.FileUploadError even though the
// request itself succeeded.
func (c *FilesClient) Upload(ctx context.Context, fieldID, encodedFile string, opts screendoor.FileOptions) (*screendoor.FileUploadResult, error) {
	content, err := base64.StdEncoding.DecodeString(encodedFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", screendoor.ErrInvalidBase64File, err)
	}

	query := screendoor.Params{}.Add(constants.QueryResponseFieldID, fieldID)
	body := http.FormBody{
		constants.FilePartName: http.FilePart{
			Filename:    opts.Filename,
			ContentType: opts.ContentType,
			Content:     content,
		},
	}

	resp, err := c.httpClient.Post(ctx, "/form_renderer/file", query, body)
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}

	return decodeUploadResult(resp.Body)
}

// decodeUploadResult gates on the "ok" member alone; file_id is kept raw so an
// unexpected shape there cannot turn a successful upload into a failure.
func decodeUploadResult(body []byte) (*screendoor.FileUploadResult, error) {
	var payload map[string]json.RawMessage

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, &screendoor.FileUploadError{Result: json.RawMessage(body)}
	}

	var ok bool

	err = json.Unmarshal(payload[constants.UploadOKKey], &ok)
	if err != nil || !ok {
		return nil, &screendoor.FileUploadError{Result: json.RawMessage(body)}
	}

	return &screendoor.FileUploadResult{
		OK:     &ok,
		FileID: payload[constants.UploadFileIDKey],
	}, nil
}
