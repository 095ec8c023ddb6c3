package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake"))

	img, err := DecodeDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, []byte("\x89PNG fake"), img.Data)

	for _, ct := range []string{"image/jpeg", "IMAGE/WEBP", "image/avif"} {
		_, err := DecodeDataURL("data:" + ct + ";base64," + payload)
		assert.NoError(t, err, ct)
	}
}

func TestDecodeDataURLRejects(t *testing.T) {
	good := base64.StdEncoding.EncodeToString([]byte("x"))
	cases := map[string]string{
		"plain url":  "https://cdn.example.com/a.jpg",
		"no comma":   "data:image/png;base64",
		"not image":  "data:application/pdf;base64," + good,
		"bare image": "data:image/;base64," + good,
		"svg":        "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(`<svg onload="alert(1)"/>`)),
		"heic":       "data:image/heic;base64," + good,
		"not base64": "data:image/png," + good,
		"bad base64": "data:image/png;base64,@@@",
		"empty":      "data:image/png;base64,",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURL(in)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "uploads/abc.jpg", ObjectKey("", "image/jpeg", "abc"))
	assert.Equal(t, "properties/abc.webp", ObjectKey("properties", "image/webp", "abc"))
	assert.Equal(t, "blog/abc.gif", ObjectKey("/blog/", "image/gif", "abc"))
	assert.Equal(t, "etc/abc.heic", ObjectKey("../../etc", "image/heic", "abc"))
	assert.Equal(t, "uploads/abc.png", ObjectKey("..", "image/png", "abc"))
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,AA=="))
	assert.False(t, IsDataURL("https://example.com/data:"))
}
