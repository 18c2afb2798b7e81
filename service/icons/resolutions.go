package icons

type resolution struct {
	description string
	size        int
}

// resolutions maps ICNS chunk types to their resolution and color depth.
// Read only.
var resolutions = map[string]resolution{
	"is32": {"32x32 (1-bit Color)", 32},
	"l8mk": {"32x32 (8-bit Grayscale)", 32},
	"il32": {"32x32 (32-bit Color)", 32},
	"s8mk": {"32x32 (8-bit with Transparency)", 32},
	"s32x": {"32x32 (8-bit Grayscale with Transparency)", 32},
	"l32x": {"32x32 (1-bit with Transparency)", 32},
	"is48": {"48x48 (1-bit Color)", 48},
	"il48": {"48x48 (32-bit Color)", 48},
	"l48x": {"48x48 (8-bit Grayscale)", 48},
	"ic04": {"128x128 (Black & White)", 128},
	"ic06": {"128x128 (Color)", 128},
	"ic07": {"128x128 (Color with Transparency)", 128},
	"ic11": {"128x128 (Grayscale with Transparency)", 128},
	"ic08": {"256x256 (Color with Transparency)", 256},
	"ic12": {"256x256 (Grayscale with Transparency)", 256},
	"s256": {"256x256 (8-bit with Transparency)", 256},
	"ic09": {"512x512 (Color with Transparency)", 512},
	"ic13": {"512x512 (Grayscale with Transparency)", 512},
	"s512": {"512x512 (8-bit with Transparency)", 512},
	"l512": {"512x512 (8-bit Grayscale)", 512},
	"ic10": {"1024x1024 (Color with Transparency)", 1024},
	"ic14": {"1024x1024 (Grayscale with Transparency)", 1024},
}

// UnknownResolution is the description of chunk types missing from the
// resolution table.
const UnknownResolution = "Unknown resolution"

// DescribeType returns a human readable resolution of the given ICNS chunk
// type.
func DescribeType(chunkType string) string {
	if r, ok := resolutions[chunkType]; ok {
		return r.description
	}
	return UnknownResolution
}

// EdgeSize returns the edge length in pixels of the given ICNS chunk type, or
// zero if unknown.
func EdgeSize(chunkType string) int {
	return resolutions[chunkType].size
}

// IsPNGChunkType reports whether the given ICNS chunk type carries a PNG
// encoded image with an alpha channel. Only these are selected.
func IsPNGChunkType(chunkType string) bool {
	switch chunkType {
	case "ic07", "ic08", "ic09", "ic10":
		return true
	default:
		return false
	}
}
