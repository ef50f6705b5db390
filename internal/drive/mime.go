package drive

import (
	"path/filepath"
	"strings"
)

// mimeByExtension maps the file types the pipeline produces to their
// MIME types for Drive uploads.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".mobi": "application/x-mobipocket-ebook",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
}

// MIMEType returns the MIME type for a file path, defaulting to a
// generic binary type for unknown extensions.
func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
