package http

import (
	"net/url"
	"strings"

	"github.com/fivetwenty-io/screendoor/internal/constants"
	"github.com/fivetwenty-io/screendoor/pkg/screendoor"
)

// BuildURL renders <host><path>?v=<version>&api_key=<key>[&name=value]*.
// Extra parameters keep their order. Names and values are percent-encoded;
// parameters named v or api_key are skipped so each appears exactly once.
func BuildURL(host, version, apiKey, path string, params screendoor.Params) string {
	var builder strings.Builder

	builder.WriteString(host)
	builder.WriteString(path)
	builder.WriteString("?" + constants.QueryVersion + "=")
	builder.WriteString(url.QueryEscape(version))
	builder.WriteString("&" + constants.QueryAPIKey + "=")
	builder.WriteString(url.QueryEscape(apiKey))

	for _, param := range params {
		if param.Name == constants.QueryVersion || param.Name == constants.QueryAPIKey {
			continue
		}

		builder.WriteByte('&')
		builder.WriteString(url.QueryEscape(param.Name))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(screendoor.FormatValue(param.Value)))
	}

	return builder.String()
}

// redactURL hides the API key so URLs can be logged. It works on the raw
// string so URLs that fail to parse are redacted too.
func redactURL(rawURL string) string {
	marker := constants.QueryAPIKey + "="

	for _, separator := range []string{"?", "&"} {
		index := strings.Index(rawURL, separator+marker)
		if index < 0 {
			continue
		}

		start := index + len(separator) + len(marker)

		end := strings.IndexAny(rawURL[start:], "&#")
		if end < 0 {
			end = len(rawURL)
		} else {
			end += start
		}

		if start == end {
			return rawURL
		}

		return rawURL[:start] + "REDACTED" + rawURL[end:]
	}

	return rawURL
}
