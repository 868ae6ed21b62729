package classify

import "strings"

var archiveMIMEs = map[string]bool{
	"application/zip":              true,
	"application/x-7z-compressed":  true,
	"application/x-rar-compressed": true,
	"application/vnd.rar":          true,
	"application/x-tar":            true,
	"application/gzip":             true,
	"application/x-xz":             true,
	"application/x-bzip2":          true,
}

// categoryForMIME maps a detected MIME type onto the default category names
func categoryForMIME(mime string) string {
	// drop parameters such as "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)

	switch {
	case strings.HasPrefix(mime, "image/"):
		return "images"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case mime == "application/pdf", strings.HasPrefix(mime, "text/"):
		return "documents"
	case archiveMIMEs[mime]:
		return "archives"
	}
	return ""
}
