package storage

import "github.com/najmfleet/employee_requests_app/internal/utils"

// The accepted upload set. Content-type headers are not trusted; only the
// lowercased filename extension decides.
var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "heic": true,
	"mp4": true, "mov": true, "avi": true, "pdf": true,
}

// imageExtensions is the subset accepted for photo-only uploads.
var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "heic": true,
}

// videoExtensions is the subset treated as inspection videos.
var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "avi": true,
}

// IsAllowedExtension reports whether the filename carries an accepted extension.
func IsAllowedExtension(name string) bool {
	return allowedExtensions[utils.FileExt(name)]
}

// IsImage reports whether the filename is in the image subset.
func IsImage(name string) bool {
	return imageExtensions[utils.FileExt(name)]
}

// IsVideo reports whether the filename is in the video subset.
func IsVideo(name string) bool {
	return videoExtensions[utils.FileExt(name)]
}

// IsPDF reports whether the filename is a PDF document.
func IsPDF(name string) bool {
	return utils.FileExt(name) == "pdf"
}
