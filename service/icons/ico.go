package icons

import (
	"fmt"

	"github.com/safing/iconloader/base/container"
)

const (
	icoHeaderSize        = 6
	icoEntrySize         = 16
	icoTypeIcon   uint16 = 1
)

// DirectoryRecord describes an image entry in the directory of an ICO
// container.
type DirectoryRecord struct {
	Index int
	// Width and Height are in pixels. A stored zero means 256.
	Width      int
	Height     int
	ColorCount uint8
	Planes     uint16
	BitCount   uint16
	// Size is the length of the image data.
	Size uint32
	// Offset is the position of the image data within the container.
	Offset uint32
}

// ScanICO returns all directory records of an ICO container. Image data
// ranges are not validated.
func ScanICO(buf []byte) ([]DirectoryRecord, error) {
	c := container.New(buf)
	count, err := readICOHeader(c)
	if err != nil {
		return nil, err
	}

	records := make([]DirectoryRecord, 0, count)
	for i := range count {
		r, err := readDirectoryRecord(c, i)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// DecodeICO selects the widest image of an ICO container. On equal widths,
// the first record wins. The image data is not inspected and may be PNG or a
// device independent bitmap.
func DecodeICO(buf []byte) (*SelectedIcon, error) {
	c := container.New(buf)
	count, err := readICOHeader(c)
	if err != nil {
		return nil, err
	}

	var best DirectoryRecord
	for i := range count {
		r, err := readDirectoryRecord(c, i)
		if err != nil {
			return nil, err
		}
		if i == 0 || r.Width > best.Width {
			best = r
		}
	}

	data, err := c.Slice(int(best.Offset), int(best.Size))
	if err != nil {
		return nil, newDecodeError(
			FormatICO, int(best.Offset), ErrTruncatedBuffer,
			fmt.Sprintf("image data of record %d", best.Index),
			err,
		)
	}

	return &SelectedIcon{
		Format: FormatICO,
		Kind:   KindRawBitmapAssumedPNG,
		Data:   data,
		Offset: int(best.Offset),
		Index:  best.Index,
		Width:  best.Width,
		Height: best.Height,
	}, nil
}

func readICOHeader(c *container.Container) (count int, err error) {
	if err := container.CheckRange(0, icoHeaderSize, c.Length()); err != nil {
		return 0, truncated(FormatICO, 0, err)
	}

	// Reads cannot fail after the range check.
	reserved, _ := c.GetUint16LE()
	iconType, _ := c.GetUint16LE()
	n, _ := c.GetUint16LE()

	switch {
	case reserved != 0:
		return 0, newDecodeError(FormatICO, 0, ErrInvalidHeader, fmt.Sprintf("reserved field is %d", reserved), nil)
	case iconType != icoTypeIcon:
		return 0, newDecodeError(FormatICO, 2, ErrInvalidHeader, fmt.Sprintf("image type is %d", iconType), nil)
	case n == 0:
		return 0, newDecodeError(FormatICO, 4, ErrNoSuitableIcon, "empty directory", nil)
	}

	return int(n), nil
}

func readDirectoryRecord(c *container.Container, index int) (DirectoryRecord, error) {
	offset := icoHeaderSize + index*icoEntrySize
	entry, err := c.Sub(offset, icoEntrySize)
	if err != nil {
		return DirectoryRecord{}, newDecodeError(
			FormatICO, offset, ErrTruncatedBuffer,
			fmt.Sprintf("directory record %d", index),
			err,
		)
	}

	// Reads cannot fail on the 16 byte entry.
	width, _ := entry.GetUint8()
	height, _ := entry.GetUint8()
	colorCount, _ := entry.GetUint8()
	_ = entry.Skip(1) // reserved
	planes, _ := entry.GetUint16LE()
	bitCount, _ := entry.GetUint16LE()
	size, _ := entry.GetUint32LE()
	dataOffset, _ := entry.GetUint32LE()

	return DirectoryRecord{
		Index:      index,
		Width:      icoDimension(width),
		Height:     icoDimension(height),
		ColorCount: colorCount,
		Planes:     planes,
		BitCount:   bitCount,
		Size:       size,
		Offset:     dataOffset,
	}, nil
}

func icoDimension(stored uint8) int {
	if stored == 0 {
		return 256
	}
	return int(stored)
}
