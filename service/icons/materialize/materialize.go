// Package materialize turns payloads selected from icon containers into
// displayable PNG images.
package materialize

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/fogleman/gg"
	ico "github.com/sergeymakinen/go-ico"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/safing/iconloader/base/utils"
	"github.com/safing/iconloader/service/icons"
)

// Errors.
var (
	ErrEmptyPayload       = errors.New("empty payload")
	ErrUnsupportedPayload = errors.New("unsupported payload encoding")
)

// Image is a displayable image.
type Image struct {
	MimeType string
	Data     []byte
	Width    int
	Height   int

	// SourceMimeType is the sniffed encoding of the payload.
	SourceMimeType string
	// Converted is set if Data was re-encoded from the payload.
	Converted bool
}

// DataURL returns the image as a data URL.
func (img *Image) DataURL() string {
	return dataurl.New(img.Data, img.MimeType).String()
}

// Base64 returns the standard base64 encoding of the image data.
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// Options configure a Materializer.
type Options struct {
	// MaxEdge limits width and height of the resulting image. Larger images
	// are scaled down, keeping the aspect ratio. Zero disables scaling.
	MaxEdge int
}

// Materializer converts selected icons into PNG images. It is safe for
// concurrent use.
type Materializer struct {
	opts Options
}

// New returns a new Materializer.
func New(opts Options) *Materializer {
	return &Materializer{
		opts: opts,
	}
}

// Materialize sniffs the actual encoding of the selected payload, regardless
// of the kind declared by the decoder, and returns it as a PNG image. PNG
// payloads are passed through unless they need to be scaled. The returned
// image never aliases the payload.
func (m *Materializer) Materialize(icon *icons.SelectedIcon) (*Image, error) {
	if len(icon.Data) == 0 {
		return nil, ErrEmptyPayload
	}

	mimeType, _ := utils.MimeTypeBySignature(icon.Data)
	switch mimeType {
	case utils.MimeTypePNG:
		cfg, err := png.DecodeConfig(bytes.NewReader(icon.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to read PNG header: %w", err)
		}
		if !m.needsScaling(cfg.Width, cfg.Height) {
			return &Image{
				MimeType:       utils.MimeTypePNG,
				Data:           bytes.Clone(icon.Data),
				Width:          cfg.Width,
				Height:         cfg.Height,
				SourceMimeType: mimeType,
			}, nil
		}
		img, err := png.Decode(bytes.NewReader(icon.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode PNG: %w", err)
		}
		return m.encode(img, mimeType)

	case utils.MimeTypeDIB:
		img, err := decodeDIB(icon)
		if err != nil {
			return nil, err
		}
		return m.encode(img, mimeType)

	case utils.MimeTypeBMP:
		img, err := bmp.Decode(bytes.NewReader(icon.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode BMP: %w", err)
		}
		return m.encode(img, mimeType)

	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedPayload, mimeType, utils.SafeFirst16Bytes(icon.Data))
	}
}

func (m *Materializer) needsScaling(width, height int) bool {
	return m.opts.MaxEdge > 0 && (width > m.opts.MaxEdge || height > m.opts.MaxEdge)
}

// encode scales the image if needed and encodes it as PNG.
func (m *Materializer) encode(img image.Image, sourceMimeType string) (*Image, error) {
	bounds := img.Bounds()
	if m.needsScaling(bounds.Dx(), bounds.Dy()) {
		img = scale(img, m.opts.MaxEdge)
		bounds = img.Bounds()
	}

	// Convert to PNG.
	imgBuf := &bytes.Buffer{}
	if err := gg.NewContextForImage(img).EncodePNG(imgBuf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &Image{
		MimeType:       utils.MimeTypePNG,
		Data:           imgBuf.Bytes(),
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
		SourceMimeType: sourceMimeType,
		Converted:      true,
	}, nil
}

// scale fits img into a square of maxEdge pixels.
func scale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width, height := maxEdge, maxEdge
	switch {
	case bounds.Dx() > bounds.Dy():
		height = max(1, bounds.Dy()*maxEdge/bounds.Dx())
	case bounds.Dy() > bounds.Dx():
		width = max(1, bounds.Dx()*maxEdge/bounds.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// decodeDIB decodes a device independent bitmap, as stored in ICO
// containers, by wrapping it into a single image ICO container.
func decodeDIB(icon *icons.SelectedIcon) (image.Image, error) {
	const (
		headerSize = 6
		entrySize  = 16
	)
	if len(icon.Data) < 16 {
		return nil, fmt.Errorf("%w: bitmap header too short", ErrUnsupportedPayload)
	}

	// Prefer the dimensions of the bitmap header. Its height covers both the
	// color and the mask bitmap.
	width := int(int32(binary.LittleEndian.Uint32(icon.Data[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(icon.Data[8:12]))) / 2
	if width <= 0 || width > 256 || height <= 0 || height > 256 {
		width, height = icon.Width, icon.Height
	}
	bitCount := binary.LittleEndian.Uint16(icon.Data[14:16])

	wrapped := make([]byte, headerSize+entrySize, headerSize+entrySize+len(icon.Data))
	binary.LittleEndian.PutUint16(wrapped[2:], 1) // type
	binary.LittleEndian.PutUint16(wrapped[4:], 1) // count
	wrapped[6] = uint8(width % 256)
	wrapped[7] = uint8(height % 256)
	binary.LittleEndian.PutUint16(wrapped[10:], 1) // planes
	binary.LittleEndian.PutUint16(wrapped[12:], bitCount)
	binary.LittleEndian.PutUint32(wrapped[14:], uint32(len(icon.Data)))
	binary.LittleEndian.PutUint32(wrapped[18:], headerSize+entrySize)
	wrapped = append(wrapped, icon.Data...)

	// Use the ICO decoder directly, as image.Decode sniffs the stream first.
	img, err := ico.Decode(bytes.NewReader(wrapped))
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitmap: %w", err)
	}
	return img, nil
}
