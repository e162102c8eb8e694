package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const imageDataURLPrefix = "data:image/"

var errNotDataURL = errors.New("render: not a data URL")

// IsImageDataURL reports whether s is a data URL carrying an image.
func IsImageDataURL(s string) bool {
	return strings.HasPrefix(s, imageDataURLPrefix)
}

// EncodeDataURL returns a base64 data URL for data.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a data URL into its media type and payload.
func DecodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, errNotDataURL
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("render: data URL has no payload")
	}

	mediaType, params, _ := strings.Cut(header, ";")
	if mediaType == "" {
		mediaType = "text/plain"
	}
	if params == "base64" || strings.HasSuffix(params, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some encoders drop padding.
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return "", nil, fmt.Errorf("render: decode base64 payload: %w", err)
			}
		}
		return mediaType, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("render: unescape payload: %w", err)
	}
	return mediaType, []byte(unescaped), nil
}
