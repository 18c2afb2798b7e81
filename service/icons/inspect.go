package icons

import (
	"encoding/binary"
	"fmt"

	"github.com/safing/iconloader/base/utils"
)

// Entry describes a single image record of a container.
type Entry struct {
	Index       int    `json:"index"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	BitCount    int    `json:"bitCount,omitempty"`
	Offset      int    `json:"offset"`
	Size        int    `json:"size"`
	HumanSize   string `json:"humanSize"`
	Selectable  bool   `json:"selectable"`
}

// Inspection lists the contents of a container.
type Inspection struct {
	Format Format `json:"-"`
	// FormatName is the name of Format.
	FormatName string `json:"format"`
	// DeclaredLength is the container length from the ICNS header.
	DeclaredLength int     `json:"declaredLength,omitempty"`
	Entries        []Entry `json:"entries"`
}

// Inspect lists all image records of the container in buf, in container
// order.
func Inspect(buf []byte, hint string, strict bool) (*Inspection, error) {
	format, err := DetectFormat(buf, hint, strict)
	if err != nil {
		return nil, err
	}

	ins := &Inspection{
		Format:     format,
		FormatName: format.String(),
	}
	switch format {
	case FormatICNS:
		records, err := ScanICNS(buf)
		if err != nil {
			return nil, err
		}
		// The header was validated by the scan.
		ins.DeclaredLength = int(binary.BigEndian.Uint32(buf[4:8]))
		for i, r := range records {
			size := EdgeSize(r.Type)
			ins.Entries = append(ins.Entries, Entry{
				Index:       i,
				Type:        r.Type,
				Description: DescribeType(r.Type),
				Width:       size,
				Height:      size,
				Offset:      r.Offset,
				Size:        int(r.Length),
				HumanSize:   utils.FormatFileSize(int64(r.Length)),
				Selectable:  IsPNGChunkType(r.Type),
			})
		}

	case FormatICO:
		records, err := ScanICO(buf)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			ins.Entries = append(ins.Entries, Entry{
				Index:       r.Index,
				Description: describeICORecord(r),
				Width:       r.Width,
				Height:      r.Height,
				BitCount:    int(r.BitCount),
				Offset:      int(r.Offset),
				Size:        int(r.Size),
				HumanSize:   utils.FormatFileSize(int64(r.Size)),
				Selectable:  true,
			})
		}
	}

	return ins, nil
}

func describeICORecord(r DirectoryRecord) string {
	if r.BitCount == 0 {
		return fmt.Sprintf("%dx%d", r.Width, r.Height)
	}
	return fmt.Sprintf("%dx%d (%d-bit)", r.Width, r.Height, r.BitCount)
}
