package materialize

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/iconloader/base/utils"
	"github.com/safing/iconloader/service/icons"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

// testDIB returns a 32 bit bottom-up device independent bitmap with an
// empty AND mask, as stored in ICO containers.
func testDIB(width, height int) []byte {
	header := make([]byte, 40)
	binary.LittleEndian.PutUint32(header[0:], 40)
	binary.LittleEndian.PutUint32(header[4:], uint32(width))
	binary.LittleEndian.PutUint32(header[8:], uint32(height*2))
	binary.LittleEndian.PutUint16(header[12:], 1)
	binary.LittleEndian.PutUint16(header[14:], 32)

	pixels := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0xFF}, width*height)
	maskStride := ((width + 31) / 32) * 4
	mask := make([]byte, maskStride*height)

	data := append(header, pixels...)
	return append(data, mask...)
}

func TestMaterializePNGPassThrough(t *testing.T) {
	t.Parallel()

	payload := testPNG(t, 32, 16)
	img, err := New(Options{}).Materialize(&icons.SelectedIcon{
		Kind: icons.KindPNG,
		Data: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, payload, img.Data)
	assert.Equal(t, utils.MimeTypePNG, img.MimeType)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 16, img.Height)
	assert.False(t, img.Converted)

	// The result does not alias the payload.
	img.Data[0] = 0
	assert.Equal(t, byte(0x89), payload[0])
}

func TestMaterializePNGScaling(t *testing.T) {
	t.Parallel()

	img, err := New(Options{MaxEdge: 16}).Materialize(&icons.SelectedIcon{
		Kind: icons.KindPNG,
		Data: testPNG(t, 64, 32),
	})
	require.NoError(t, err)
	assert.True(t, img.Converted)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 8, img.Height)

	cfg, err := png.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)

	// Small images are kept.
	img, err = New(Options{MaxEdge: 16}).Materialize(&icons.SelectedIcon{
		Data: testPNG(t, 8, 8),
	})
	require.NoError(t, err)
	assert.False(t, img.Converted)
}

func TestMaterializeDIB(t *testing.T) {
	t.Parallel()

	img, err := New(Options{}).Materialize(&icons.SelectedIcon{
		Format: icons.FormatICO,
		Kind:   icons.KindRawBitmapAssumedPNG,
		Data:   testDIB(4, 4),
		Width:  4,
		Height: 4,
	})
	require.NoError(t, err)
	assert.True(t, img.Converted)
	assert.Equal(t, utils.MimeTypeDIB, img.SourceMimeType)
	assert.Equal(t, utils.MimeTypePNG, img.MimeType)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 4, img.Height)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestMaterializeUnsupported(t *testing.T) {
	t.Parallel()

	m := New(Options{})

	_, err := m.Materialize(&icons.SelectedIcon{})
	require.ErrorIs(t, err, ErrEmptyPayload)

	_, err = m.Materialize(&icons.SelectedIcon{Data: []byte("GIF89a-not-supported")})
	require.ErrorIs(t, err, ErrUnsupportedPayload)

	_, err = m.Materialize(&icons.SelectedIcon{Data: []byte("\x00\x00\x00\x0cjP  \r\n\x87\n")})
	require.ErrorIs(t, err, ErrUnsupportedPayload)
}

func TestImageEncodings(t *testing.T) {
	t.Parallel()

	img := &Image{
		MimeType: utils.MimeTypePNG,
		Data:     []byte("png"),
	}
	assert.Equal(t, "cG5n", img.Base64())
	assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/png;base64,"))
	assert.True(t, strings.HasSuffix(img.DataURL(), "cG5n"))
}
