// Package contenttype classifies HTTP response bodies for diagnostics when
// an API answers with something other than JSON.
package contenttype

import (
	"mime"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	HTML   Category = "html"
	XML    Category = "xml"
	Text   Category = "text"
	Binary Category = "binary"
)

// MaxSnippetLen bounds the body excerpt returned by Describe.
const MaxSnippetLen = 120

// Classify returns the broad content category for a content-type header value.
// Parameters (charset, boundary) are ignored. Empty or unrecognized values
// are Binary.
func Classify(contentType string) Category {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == "":
		return Binary
	case strings.Contains(mediaType, "json"):
		return JSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	default:
		return Binary
	}
}

// Describe summarizes a response body for an error message: its category
// and, for textual bodies, a whitespace-collapsed excerpt.
func Describe(contentType string, data []byte) string {
	category := Classify(contentType)
	if contentType == "" && utf8.Valid(data) && len(data) > 0 {
		category = Text
	}
	if category == Binary || len(data) == 0 {
		return string(category)
	}
	return string(category) + ": " + snippet(data)
}

func snippet(data []byte) string {
	s := strings.Join(strings.Fields(string(data)), " ")
	if len(s) <= MaxSnippetLen {
		return s
	}
	cut := MaxSnippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
