package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._\-\x{0600}-\x{06FF}]+`)

// SanitizeFilename strips path separators and shell-hostile characters from
// an uploaded filename, lowercasing the extension. Arabic letters are kept.
func SanitizeFilename(name string) string {
	// Drop any directory components a hostile client sends.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "file"
	}
	return base + ext
}

// FileExt returns the lowercased extension without the leading dot.
func FileExt(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
