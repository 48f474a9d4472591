package security

import (
	"fmt"

	apperrors "youchat/pkg/errors"
)

// MaxUploadSize is the hard cap for a single uploaded file.
const MaxUploadSize = 25 * 1024 * 1024

var allowedUploadTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/bmp":     {},
	"image/svg+xml": {},

	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
	"text/csv":   {},

	"application/zip":              {},
	"application/x-zip-compressed": {},
	"application/x-rar-compressed": {},
	"application/x-7z-compressed":  {},

	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
	"audio/wave":  {},
	"audio/x-wav": {},
	"audio/ogg":   {},
	"audio/aac":   {},
	"audio/mp4":   {},
	"audio/x-m4a": {},

	"video/mp4":       {},
	"video/mpeg":      {},
	"video/quicktime": {},
	"video/x-msvideo": {},
	"video/webm":      {},
}

// ValidateUpload checks an uploaded file's MIME type against the allowlist and
// enforces the size cap. Rejections carry CodeInvalidArgument so the client
// gets a correctable 400, not a server error.
func ValidateUpload(mimeType string, size int64) error {
	if _, ok := allowedUploadTypes[mimeType]; !ok {
		return apperrors.InvalidArg(fmt.Sprintf("unsupported file type: %s. Allowed types: images, documents, audio, video and archives", mimeType))
	}
	if size > MaxUploadSize {
		return apperrors.InvalidArg(fmt.Sprintf("file size %.2fMB exceeds 25MB limit", float64(size)/1024/1024))
	}
	return nil
}
