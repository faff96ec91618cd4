package constants

import "strings"

const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted for scanning.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps an extension to a source format, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}
