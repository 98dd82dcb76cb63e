package contenttype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        Category
	}{
		{"application/json", JSON},
		{"application/json; charset=utf-8", JSON},
		{"application/vnd.api+json", JSON},
		{"Application/JSON", JSON},
		{"text/html; charset=utf-8", HTML},
		{"application/xhtml+xml", HTML},
		{"application/xml", XML},
		{"text/xml", XML},
		{"text/plain", Text},
		{"image/png", Binary},
		{"application/octet-stream", Binary},
		{"", Binary},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "html: <html> <body>Service Unavailable</body> </html>",
		Describe("text/html", []byte("<html>\n  <body>Service Unavailable</body>\n</html>")))
	assert.Equal(t, "binary", Describe("image/png", []byte{0x89, 'P', 'N', 'G'}))
	assert.Equal(t, "text: upstream timeout", Describe("", []byte("upstream timeout")))
	assert.Equal(t, "text", Describe("text/plain", nil))
}

func TestDescribe_TruncatesLongBodies(t *testing.T) {
	got := Describe("text/plain", []byte(strings.Repeat("é", 200)))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), len("text: ")+MaxSnippetLen+len("..."))
}
