package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// Content types selected by the body encoder.
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrUnsupportedBody   = errors.New("unsupported request body")
	ErrFileOutsideForm   = errors.New("file parts are only allowed under the file key")
)

// FormBody is a POST payload. It is sent multipart/form-data when it holds a
// "file" key and application/x-www-form-urlencoded otherwise. Nested maps and
// slices use bracket notation (a[b]=c, a[0]=c).
type FormBody map[string]interface{}

// FilePart is binary content sent as a multipart file part.
type FilePart struct {
	Filename    string
	ContentType string
	Content     []byte
}

// encodeBody applies the per-verb encoding policy: GET sends nothing, POST
// sends a form or multipart body, PUT sends JSON.
func encodeBody(method string, body interface{}) ([]byte, string, error) {
	switch method {
	case http.MethodGet:
		return nil, "", nil
	case http.MethodPost:
		if body == nil {
			return nil, "", nil
		}

		form, ok := asFormBody(body)
		if !ok {
			return nil, "", fmt.Errorf("%w for POST: %T", ErrUnsupportedBody, body)
		}

		if _, hasFile := form[constants.FilePartName]; hasFile {
			return encodeMultipart(form)
		}

		encoded, err := encodeForm(form)
		if err != nil {
			return nil, "", err
		}

		return []byte(encoded), ContentTypeForm, nil
	case http.MethodPut:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding JSON body: %w", err)
		}

		return payload, ContentTypeJSON, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

func asFormBody(body interface{}) (FormBody, bool) {
	switch typed := body.(type) {
	case FormBody:
		return typed, true
	case map[string]interface{}:
		return FormBody(typed), true
	default:
		return nil, false
	}
}

// encodeForm renders the body with sorted keys so the output is stable.
func encodeForm(form FormBody) (string, error) {
	var pairs []string

	err := flattenForm(form, func(name, value string) error {
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(value))

		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(pairs, "&"), nil
}

func flattenForm(form FormBody, emit func(name, value string) error) error {
	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := flattenValue(key, form[key], emit)
		if err != nil {
			return err
		}
	}

	return nil
}

func flattenValue(name string, value interface{}, emit func(name, value string) error) error {
	switch typed := value.(type) {
	case FilePart, *FilePart:
		return fmt.Errorf("%w: %s", ErrFileOutsideForm, name)
	case json.RawMessage:
		var decoded interface{}

		err := json.Unmarshal(typed, &decoded)
		if err != nil {
			return fmt.Errorf("decoding form value %s: %w", name, err)
		}

		return flattenValue(name, decoded, emit)
	}

	if value == nil {
		return emit(name, "")
	}

	reflected := reflect.ValueOf(value)

	switch reflected.Kind() {
	case reflect.Map:
		keys := make([]string, 0, reflected.Len())
		index := make(map[string]reflect.Value, reflected.Len())

		for _, key := range reflected.MapKeys() {
			text := screendoor.FormatValue(key.Interface())
			keys = append(keys, text)
			index[text] = key
		}

		sort.Strings(keys)

		for _, key := range keys {
			err := flattenValue(name+"["+key+"]", reflected.MapIndex(index[key]).Interface(), emit)
			if err != nil {
				return err
			}
		}

		return nil
	case reflect.Slice, reflect.Array:
		if reflected.Kind() == reflect.Slice && reflected.Type().Elem().Kind() == reflect.Uint8 {
			return emit(name, string(reflected.Bytes()))
		}

		for i := range reflected.Len() {
			err := flattenValue(name+"["+strconv.Itoa(i)+"]", reflected.Index(i).Interface(), emit)
			if err != nil {
				return err
			}
		}

		return nil
	case reflect.Pointer:
		if reflected.IsNil() {
			return emit(name, "")
		}

		return flattenValue(name, reflected.Elem().Interface(), emit)
	default:
		return emit(name, screendoor.FormatValue(value))
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes file parts for FilePart values and plain fields for
// everything else.
func encodeMultipart(form FormBody) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		var err error

		switch part := form[key].(type) {
		case FilePart:
			err = writeFilePart(writer, key, part)
		case *FilePart:
			err = writeFilePart(writer, key, *part)
		default:
			err = flattenValue(key, part, writer.WriteField)
		}

		if err != nil {
			return nil, "", fmt.Errorf("encoding multipart body: %w", err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, name string, part FilePart) error {
	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(part.Filename)))
	header.Set("Content-Type", contentType)

	partWriter, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	_, err = partWriter.Write(part.Content)
	if err != nil {
		return fmt.Errorf("writing file part: %w", err)
	}

	return nil
}
