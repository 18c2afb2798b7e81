package icons

import (
	"fmt"

	"github.com/safing/iconloader/base/container"
)

const (
	icnsMagic           uint32 = 0x69636E73 // "icns"
	icnsHeaderSize             = 8
	icnsChunkHeaderSize        = 8
)

// ChunkRecord describes a chunk of an ICNS container.
type ChunkRecord struct {
	// Type is the four character chunk type.
	Type string
	// Length is the full chunk length, including the 8 byte chunk header.
	Length uint32
	// Offset is the position of the chunk header within the container.
	Offset int
}

// PayloadOffset returns the position of the chunk data.
func (r ChunkRecord) PayloadOffset() int {
	return r.Offset + icnsChunkHeaderSize
}

// PayloadLength returns the length of the chunk data.
func (r ChunkRecord) PayloadLength() int {
	return int(r.Length) - icnsChunkHeaderSize
}

// ScanICNS returns all chunk records of an ICNS container.
func ScanICNS(buf []byte) ([]ChunkRecord, error) {
	var records []ChunkRecord
	_, err := walkICNS(buf, func(r ChunkRecord) bool {
		records = append(records, r)
		return false
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeICNS selects a PNG encoded chunk from an ICNS container.
func DecodeICNS(buf []byte, policy Policy) (*SelectedIcon, error) {
	var (
		selected ChunkRecord
		index    = -1
		i        int
	)
	_, err := walkICNS(buf, func(r ChunkRecord) (stop bool) {
		defer func() { i++ }()

		if !IsPNGChunkType(r.Type) {
			return false
		}
		if policy == SelectLargest {
			if index < 0 || EdgeSize(r.Type) > EdgeSize(selected.Type) {
				selected, index = r, i
			}
			return false
		}
		selected, index = r, i
		return true
	})
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, newDecodeError(FormatICNS, len(buf), ErrNoSuitableIcon, "no PNG chunk (ic07, ic08, ic09, ic10)", nil)
	}

	// Bounds were checked while walking.
	start := selected.PayloadOffset()
	size := EdgeSize(selected.Type)
	return &SelectedIcon{
		Format: FormatICNS,
		Kind:   KindPNG,
		Data:   buf[start : start+selected.PayloadLength() : start+selected.PayloadLength()],
		Offset: start,
		Type:   selected.Type,
		Index:  index,
		Width:  size,
		Height: size,
	}, nil
}

// walkICNS validates the ICNS header and calls fn for every chunk in file
// order until fn returns true. It returns the declared container length.
func walkICNS(buf []byte, fn func(ChunkRecord) (stop bool)) (declared int, err error) {
	c := container.New(buf)

	magic, err := c.GetUint32BE()
	if err != nil {
		return 0, truncated(FormatICNS, 0, err)
	}
	if magic != icnsMagic {
		return 0, newDecodeError(FormatICNS, 0, ErrInvalidMagic, fmt.Sprintf("got 0x%08x", magic), nil)
	}
	length, err := c.GetUint32BE()
	if err != nil {
		return 0, truncated(FormatICNS, 4, err)
	}

	// The declared length bounds the scan, but is never trusted beyond the
	// actual buffer.
	if err := container.CheckRange(0, int(length), len(buf)); err != nil {
		return 0, newDecodeError(
			FormatICNS, 4, ErrTruncatedBuffer,
			fmt.Sprintf("declared length %d exceeds buffer of %d bytes", length, len(buf)),
			nil,
		)
	}
	declared = int(length)
	scan := container.New(buf[:declared])

	offset := icnsHeaderSize
	for offset < declared {
		if err := scan.Seek(offset); err != nil {
			return declared, truncated(FormatICNS, offset, err)
		}
		tag, err := scan.Get(4)
		if err != nil {
			return declared, truncated(FormatICNS, offset, err)
		}
		chunkLength, err := scan.GetUint32BE()
		if err != nil {
			return declared, truncated(FormatICNS, offset, err)
		}
		if chunkLength < icnsChunkHeaderSize {
			return declared, newDecodeError(
				FormatICNS, offset, ErrTruncatedBuffer,
				fmt.Sprintf("chunk %q has invalid length %d", tag, chunkLength),
				nil,
			)
		}
		if err := container.CheckRange(offset, int(chunkLength), declared); err != nil {
			return declared, newDecodeError(
				FormatICNS, offset, ErrTruncatedBuffer,
				fmt.Sprintf("chunk %q", tag),
				err,
			)
		}

		if fn(ChunkRecord{
			Type:   string(tag),
			Length: chunkLength,
			Offset: offset,
		}) {
			return declared, nil
		}
		offset += int(chunkLength)
	}

	return declared, nil
}
