package utils

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Do not depend on the OS for mimetypes.
// A Windows update screwed us over here and broke all the automatic mime
// typing via Go in April 2021.

// Image mime types.
const (
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
	MimeTypeGIF  = "image/gif"
	MimeTypeBMP  = "image/bmp"
	MimeTypeWebP = "image/webp"
	MimeTypeICO  = "image/vnd.microsoft.icon"
	MimeTypeICNS = "image/icns"

	// MimeTypeDIB is used for device independent bitmaps without a BMP file
	// header, as found in ICO containers. It is not a registered type.
	MimeTypeDIB = "image/x-dib"

	defaultMimeType = "application/octet-stream"
)

// MimeTypeByExtension returns a mimetype for the given file name extension,
// which must including the leading dot.
// If the extension is not known, the call returns with ok=false and,
// additionally, a default "application/octet-stream" mime type is returned.
func MimeTypeByExtension(ext string) (mimeType string, ok bool) {
	mimeType, ok = mimeTypes[strings.ToLower(ext)]
	if ok {
		return
	}

	return defaultMimeType, false
}

var mimeTypes = map[string]string{
	".bmp":  MimeTypeBMP,
	".gif":  MimeTypeGIF,
	".icns": MimeTypeICNS,
	".ico":  MimeTypeICO,
	".jpeg": MimeTypeJPEG,
	".jpg":  MimeTypeJPEG,
	".png":  MimeTypePNG,
	".svg":  "image/svg+xml",
	".tiff": "image/tiff",
	".webp": MimeTypeWebP,
}

var (
	signaturePNG  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	signatureJPEG = []byte{0xFF, 0xD8, 0xFF}
	signatureGIF  = []byte("GIF8")
	signatureBMP  = []byte("BM")
	signatureRIFF = []byte("RIFF")
	signatureWEBP = []byte("WEBP")
	signatureICNS = []byte("icns")
	signatureICO  = []byte{0x00, 0x00, 0x01, 0x00}
)

// Sizes of the known BITMAPINFOHEADER variants.
var dibHeaderSizes = []uint32{12, 40, 52, 56, 108, 124}

// MimeTypeBySignature returns a mimetype for the given data, derived only
// from its leading bytes. If no signature matches, the call returns with
// ok=false and the default "application/octet-stream" mime type.
func MimeTypeBySignature(data []byte) (mimeType string, ok bool) {
	switch {
	case bytes.HasPrefix(data, signaturePNG):
		return MimeTypePNG, true
	case bytes.HasPrefix(data, signatureJPEG):
		return MimeTypeJPEG, true
	case bytes.HasPrefix(data, signatureGIF):
		return MimeTypeGIF, true
	case len(data) >= 12 && bytes.HasPrefix(data, signatureRIFF) && bytes.Equal(data[8:12], signatureWEBP):
		return MimeTypeWebP, true
	case bytes.HasPrefix(data, signatureICNS):
		return MimeTypeICNS, true
	case bytes.HasPrefix(data, signatureICO):
		return MimeTypeICO, true
	case bytes.HasPrefix(data, signatureBMP):
		return MimeTypeBMP, true
	case isDIB(data):
		return MimeTypeDIB, true
	}

	return defaultMimeType, false
}

func isDIB(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	headerSize := binary.LittleEndian.Uint32(data)
	for _, size := range dibHeaderSizes {
		if headerSize == size {
			return uint32(len(data)) >= headerSize
		}
	}
	return false
}
