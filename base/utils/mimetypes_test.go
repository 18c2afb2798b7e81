package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeTypeByExtension(t *testing.T) {
	t.Parallel()

	mimeType, ok := MimeTypeByExtension(".PNG")
	assert.True(t, ok)
	assert.Equal(t, MimeTypePNG, mimeType)

	mimeType, ok = MimeTypeByExtension(".icns")
	assert.True(t, ok)
	assert.Equal(t, MimeTypeICNS, mimeType)

	mimeType, ok = MimeTypeByExtension(".exe")
	assert.False(t, ok)
	assert.Equal(t, "application/octet-stream", mimeType)
}

func TestMimeTypeBySignature(t *testing.T) {
	t.Parallel()

	dib := make([]byte, 48)
	dib[0] = 40

	tests := []struct {
		data []byte
		want string
		ok   bool
	}{
		{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}, MimeTypePNG, true},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, MimeTypeJPEG, true},
		{[]byte("GIF89a"), MimeTypeGIF, true},
		{[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MimeTypeWebP, true},
		{[]byte("icns\x00\x00\x00\x08"), MimeTypeICNS, true},
		{[]byte{0, 0, 1, 0, 1, 0}, MimeTypeICO, true},
		{[]byte("BM\x00\x00"), MimeTypeBMP, true},
		{dib, MimeTypeDIB, true},
		{dib[:20], "application/octet-stream", false},
		{[]byte("hello world"), "application/octet-stream", false},
		{nil, "application/octet-stream", false},
	}
	for _, test := range tests {
		mimeType, ok := MimeTypeBySignature(test.data)
		assert.Equal(t, test.want, mimeType, "data: %s", SafeFirst16Bytes(test.data))
		assert.Equal(t, test.ok, ok, "data: %s", SafeFirst16Bytes(test.data))
	}
}
