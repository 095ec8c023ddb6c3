package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
)

// MaxImageBytes caps the decoded size of one uploaded image.
const MaxImageBytes = 10 << 20

var ErrInvalidImage = errors.New("invalid image")

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Data        []byte
}

// IsDataURL reports whether s is inline data rather than a URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL parses "data:image/<subtype>;base64,<payload>".  Only base64
// payloads of a raster type listed in extensions are accepted; SVG is not,
// since it can carry script and is served from the public bucket.
func DecodeDataURL(s string) (Image, error) {
	if !IsDataURL(s) {
		return Image{}, fmt.Errorf("%w: not a data URL", ErrInvalidImage)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}
	params := strings.Split(header, ";")
	contentType := strings.ToLower(strings.TrimSpace(params[0]))
	if _, ok := extensions[contentType]; !ok {
		return Image{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, contentType)
	}
	if params[len(params)-1] != "base64" {
		return Image{}, fmt.Errorf("%w: payload must be base64", ErrInvalidImage)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return Image{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxImageBytes)
	}
	return Image{ContentType: contentType, Data: data}, nil
}

// extensions doubles as the upload allow-list.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

func extensionFor(contentType string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	sub := strings.TrimPrefix(contentType, "image/")
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	return "." + sub
}

func cleanFolder(folder string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(folder) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '/':
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(path.Clean("/"+b.String()), "/")
	if cleaned == "" {
		return DefaultFolder
	}
	return cleaned
}

// ObjectKey builds "<folder>/<id><ext>".  The folder is reduced to safe
// characters and defaults to "uploads".
func ObjectKey(folder, contentType, id string) string {
	return cleanFolder(folder) + "/" + id + extensionFor(contentType)
}
