package icons

import (
	"encoding/binary"
	"path"
	"strings"

	"github.com/safing/iconloader/base/utils"
)

// Format describes an icon container format.
type Format uint8

// Supported container formats.
const (
	FormatUnknown Format = iota
	FormatICNS
	FormatICO
)

func (f Format) String() string {
	switch f {
	case FormatICNS:
		return "icns"
	case FormatICO:
		return "ico"
	default:
		return "unknown"
	}
}

// Extension returns the file name extension of the format, including the
// leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatICNS:
		return ".icns"
	case FormatICO:
		return ".ico"
	default:
		return ""
	}
}

// FormatFromHint returns the format indicated by the extension of the given
// file name, path or URL. Query strings and fragments are ignored.
func FormatFromHint(hint string) Format {
	if i := strings.IndexAny(hint, "?#"); i >= 0 {
		hint = hint[:i]
	}

	switch strings.ToLower(path.Ext(hint)) {
	case ".icns":
		return FormatICNS
	case ".ico":
		return FormatICO
	default:
		return FormatUnknown
	}
}

// SniffFormat returns the format indicated by the leading bytes of buf.
func SniffFormat(buf []byte) Format {
	if len(buf) < 4 {
		return FormatUnknown
	}

	switch {
	case binary.BigEndian.Uint32(buf) == icnsMagic:
		return FormatICNS
	case binary.LittleEndian.Uint16(buf) == 0 &&
		binary.LittleEndian.Uint16(buf[2:]) == icoTypeIcon:
		return FormatICO
	default:
		return FormatUnknown
	}
}

// DetectFormat returns the container format of buf. A recognized extension
// in hint is trusted, unless strict is set, in which case only the leading
// bytes of buf decide.
func DetectFormat(buf []byte, hint string, strict bool) (Format, error) {
	if !strict {
		if f := FormatFromHint(hint); f != FormatUnknown {
			return f, nil
		}
	}

	if f := SniffFormat(buf); f != FormatUnknown {
		return f, nil
	}

	return FormatUnknown, newDecodeError(FormatUnknown, 0, ErrUnsupportedFormat, describeLeadingBytes(buf), nil)
}

func describeLeadingBytes(buf []byte) string {
	return "leading bytes " + utils.SafeFirst16Bytes(buf)
}
