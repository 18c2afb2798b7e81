package icons

import (
	"errors"
	"fmt"
	"strings"
)

// PayloadKind describes what the decoder claims about the encoding of a
// selected payload.
type PayloadKind uint8

// Payload kinds.
const (
	// KindPNG is a payload from a chunk type that is always PNG encoded.
	KindPNG PayloadKind = iota + 1
	// KindRawBitmapAssumedPNG is a payload that was not inspected. It is
	// usually PNG, but may be a legacy device independent bitmap.
	KindRawBitmapAssumedPNG
)

func (k PayloadKind) String() string {
	switch k {
	case KindPNG:
		return "png"
	case KindRawBitmapAssumedPNG:
		return "raw-bitmap-assumed-png"
	default:
		return "unknown"
	}
}

// SelectedIcon is the payload picked by a decoder.
type SelectedIcon struct {
	Format Format
	Kind   PayloadKind

	// Data aliases the decoded buffer.
	Data []byte
	// Offset is the position of Data within the decoded buffer.
	Offset int

	// Type is the ICNS chunk type. Empty for ICO.
	Type string
	// Index is the position of the record within the container.
	Index int

	// Width and Height are the dimensions declared by the container. They are
	// zero if the container does not declare them.
	Width  int
	Height int
}

// Clone returns a copy of the selected icon that does not reference the
// decoded buffer anymore.
func (s *SelectedIcon) Clone() *SelectedIcon {
	c := *s
	c.Data = make([]byte, len(s.Data))
	copy(c.Data, s.Data)
	return &c
}

func (s *SelectedIcon) String() string {
	name := s.Type
	if name == "" {
		name = fmt.Sprintf("#%d", s.Index)
	}
	return fmt.Sprintf("%s %s %dx%d (%s, %d bytes at %d)", s.Format, name, s.Width, s.Height, s.Kind, len(s.Data), s.Offset)
}

// Policy defines how a decoder picks among multiple usable records.
type Policy uint8

// Selection policies.
const (
	// SelectFirst picks the first usable ICNS chunk in file order.
	SelectFirst Policy = iota
	// SelectLargest picks the usable ICNS chunk with the largest declared
	// resolution, and the first one of those on ties.
	SelectLargest
)

func (p Policy) String() string {
	switch p {
	case SelectFirst:
		return "first"
	case SelectLargest:
		return "largest"
	default:
		return "invalid"
	}
}

// ErrInvalidPolicy is returned by ParsePolicy for unknown policy names.
var ErrInvalidPolicy = errors.New("invalid selection policy")

// ParsePolicy returns the policy with the given name. An empty name yields
// SelectFirst.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return SelectFirst, nil
	case "largest":
		return SelectLargest, nil
	default:
		return SelectFirst, fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}

// Options configure Decode.
type Options struct {
	Policy Policy
	// StrictSniff ignores file name hints and always detects the format by
	// the leading bytes.
	StrictSniff bool
}
