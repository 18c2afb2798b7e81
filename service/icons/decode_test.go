package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromHint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatICNS, FormatFromHint("AppIcon.icns"))
	assert.Equal(t, FormatICNS, FormatFromHint("https://example.com/icons/App.ICNS?v=2"))
	assert.Equal(t, FormatICO, FormatFromHint("favicon.ico"))
	assert.Equal(t, FormatICO, FormatFromHint("https://example.com/favicon.ico#top"))
	assert.Equal(t, FormatUnknown, FormatFromHint("https://example.com/favicon.ico.png"))
	assert.Equal(t, FormatUnknown, FormatFromHint(""))
	assert.Equal(t, FormatUnknown, FormatFromHint("icns"))
}

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatICNS, SniffFormat(buildICNS()))
	assert.Equal(t, FormatICO, SniffFormat(buildICO()))
	assert.Equal(t, FormatUnknown, SniffFormat([]byte{0, 0, 2, 0}))
	assert.Equal(t, FormatUnknown, SniffFormat([]byte("\x89PNG")))
	assert.Equal(t, FormatUnknown, SniffFormat([]byte("ic")))
	assert.Equal(t, FormatUnknown, SniffFormat(nil))
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	ico := buildICO(testEntry{16, 16, payload("x", 4)})

	// Hint is trusted.
	f, err := DetectFormat(ico, "icon.icns", false)
	require.NoError(t, err)
	assert.Equal(t, FormatICNS, f)

	// Strict sniffing overrides the hint.
	f, err = DetectFormat(ico, "icon.icns", true)
	require.NoError(t, err)
	assert.Equal(t, FormatICO, f)

	// No usable hint.
	f, err = DetectFormat(ico, "download?id=1", false)
	require.NoError(t, err)
	assert.Equal(t, FormatICO, f)

	_, err = DetectFormat([]byte("GIF89a..."), "image", false)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "unsupported_format", KindOf(err))

	_, err = DetectFormat([]byte("GIF89a..."), "favicon.ico", true)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	p := payload("png", 16)
	icon, err := Decode(buildICNS(testChunk{"ic09", p}), "")
	require.NoError(t, err)
	assert.Equal(t, p, icon.Data)

	icon, err = Decode(buildICO(testEntry{64, 64, p}), "x.ico")
	require.NoError(t, err)
	assert.Equal(t, p, icon.Data)
	assert.Equal(t, "ico #0 64x64 (raw-bitmap-assumed-png, 16 bytes at 22)", icon.String())

	// Neither ICNS magic nor ICO header.
	_, err = Decode([]byte{0x12, 0x34, 0x56, 0x78, 0, 0, 0, 0}, "")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	// A misleading hint fails inside the decoder.
	_, err = Decode(buildICO(testEntry{64, 64, p}), "x.icns")
	require.ErrorIs(t, err, ErrInvalidMagic)

	icon, err = DecodeWithOptions(buildICO(testEntry{64, 64, p}), "x.icns", Options{StrictSniff: true})
	require.NoError(t, err)
	assert.Equal(t, FormatICO, icon.Format)

	icon, err = DecodeWithOptions(
		buildICNS(testChunk{"ic07", payload("a", 2)}, testChunk{"ic10", p}),
		"", Options{Policy: SelectLargest},
	)
	require.NoError(t, err)
	assert.Equal(t, "ic10", icon.Type)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, SelectFirst, p)

	p, err = ParsePolicy(" Largest ")
	require.NoError(t, err)
	assert.Equal(t, SelectLargest, p)
	assert.Equal(t, "largest", p.String())

	_, err = ParsePolicy("best")
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	ins, err := Inspect(buildICNS(
		testChunk{"is32", payload("x", 10)},
		testChunk{"ic08", payload("y", 2000)},
	), "", false)
	require.NoError(t, err)
	assert.Equal(t, "icns", ins.FormatName)
	assert.Equal(t, 8+18+2008, ins.DeclaredLength)
	require.Len(t, ins.Entries, 2)
	assert.Equal(t, "32x32 (1-bit Color)", ins.Entries[0].Description)
	assert.False(t, ins.Entries[0].Selectable)
	assert.Equal(t, "18 B", ins.Entries[0].HumanSize)
	assert.True(t, ins.Entries[1].Selectable)
	assert.Equal(t, "1.96 KB", ins.Entries[1].HumanSize)

	ins, err = Inspect(buildICO(
		testEntry{0, 0, payload("x", 10)},
		testEntry{16, 16, payload("y", 10)},
	), "", false)
	require.NoError(t, err)
	assert.Equal(t, "ico", ins.FormatName)
	require.Len(t, ins.Entries, 2)
	assert.Equal(t, "256x256 (32-bit)", ins.Entries[0].Description)
	assert.Equal(t, 16, ins.Entries[1].Width)

	_, err = Inspect([]byte("nope"), "", false)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
