// Package media holds the closed set of accepted source formats and the
// filename rules shared by the web and desktop front-ends.
package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// mimeTypes maps every accepted extension to the MIME type sent with uploads.
var mimeTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"opus": "audio/opus",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"wmv":  "video/x-ms-wmv",
	"avi":  "video/x-msvideo",
	"webm": "video/webm",
	"mpeg": "video/mpeg",
}

// extensionOrder is the display order used for dialogs and the upload form.
var extensionOrder = []string{
	"mp3", "wav", "m4a", "aac", "ogg", "flac", "opus",
	"mp4", "mov", "wmv", "avi", "webm", "mpeg",
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsAllowed reports whether name carries one of the accepted media extensions.
func IsAllowed(name string) bool {
	_, ok := mimeTypes[Extension(name)]
	return ok
}

// MIMEType returns the upload MIME type for name, or "" when not accepted.
func MIMEType(name string) string {
	return mimeTypes[Extension(name)]
}

// Extensions returns the accepted extensions in display order.
func Extensions() []string {
	return append([]string(nil), extensionOrder...)
}

// DialogPattern returns the accepted extensions as a native dialog filter
// pattern, e.g. "*.mp3;*.wav".
func DialogPattern() string {
	patterns := make([]string, 0, len(extensionOrder))
	for _, ext := range extensionOrder {
		patterns = append(patterns, "*."+ext)
	}
	return strings.Join(patterns, ";")
}

// AcceptAttribute returns the accepted extensions for an HTML file input.
func AcceptAttribute() string {
	exts := Extensions()
	sort.Strings(exts)
	for i, ext := range exts {
		exts[i] = "." + ext
	}
	return strings.Join(exts, ",")
}
