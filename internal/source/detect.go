package source

import (
	"mime"
	"path/filepath"
	"strings"
)

// MediaTypeNDJSON is the media type of newline-delimited JSON request bodies.
const MediaTypeNDJSON = "application/x-ndjson"

// FormatForContentType maps a Content-Type header value to an input Format.
// Parameters (charset etc.) are ignored. ok is false for types that are
// neither JSON nor YAML.
func FormatForContentType(contentType string) (f Format, ok bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	// application/json, application/x-ndjson, application/vnd.*+json, application/jsonl
	case strings.Contains(mediaType, "json"):
		return FormatJSON, true
	// application/yaml, text/yaml, application/x-yaml
	case strings.Contains(mediaType, "yaml"):
		return FormatYAML, true
	}
	return "", false
}

// FormatForPath guesses the Format from a file extension. Unknown
// extensions are treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
