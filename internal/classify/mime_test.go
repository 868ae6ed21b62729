package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForMIME(t *testing.T) {
	tests := map[string]string{
		"image/png":                 "images",
		"audio/mpeg":                "audio",
		"video/mp4":                 "video",
		"application/pdf":           "documents",
		"text/plain; charset=utf-8": "documents",
		"application/zip":           "archives",
		"application/gzip":          "archives",
		"application/octet-stream":  "",
	}
	for mime, want := range tests {
		assert.Equal(t, want, categoryForMIME(mime), mime)
	}
}
