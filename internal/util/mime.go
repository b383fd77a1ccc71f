package util

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid base64 payload")

// DetectMIME sniffs the content type from the first bytes of data.
func DetectMIME(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}

	return http.DetectContentType(data)
}

// IsThumbnailMIME reports whether the image decoders registered by the
// imaging package can read mimeType.
func IsThumbnailMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}

// ExtensionForMIME returns the file extension used when storing an image
// of the given type.
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	default:
		return ".bin"
	}
}

// DecodeDataURL accepts either a bare base64 string or a data URL
// ("data:image/png;base64,....") and returns the decoded bytes.
func DecodeDataURL(payload string) ([]byte, error) {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "data:") {
		idx := strings.Index(trimmed, ",")
		if idx < 0 || !strings.Contains(trimmed[:idx], ";base64") {
			return nil, ErrInvalidDataURL
		}
		trimmed = trimmed[idx+1:]
	}

	if trimmed == "" {
		return nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(trimmed, "="))
		if err != nil {
			return nil, ErrInvalidDataURL
		}
	}

	return data, nil
}
