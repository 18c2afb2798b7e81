package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotEnoughData is matched by all errors returned for out of range reads.
var ErrNotEnoughData = errors.New("container: not enough data")

// RangeError describes a read of Length bytes at Offset that does not fit
// into a buffer of Size bytes.
type RangeError struct {
	Offset int
	Length int
	Size   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("container: cannot read %d bytes at offset %d of %d", e.Length, e.Offset, e.Size)
}

// Unwrap returns ErrNotEnoughData.
func (e *RangeError) Unwrap() error {
	return ErrNotEnoughData
}

// CheckRange returns a *RangeError if [offset, offset+length) is not fully
// within a buffer of the given size. It does not overflow for any input.
func CheckRange(offset, length, size int) error {
	if offset < 0 || length < 0 || offset > size || length > size-offset {
		return &RangeError{
			Offset: offset,
			Length: length,
			Size:   size,
		}
	}
	return nil
}

// Container is a read cursor over a byte slice. Data will NOT be copied.
type Container struct {
	data   []byte
	offset int
}

// New creates a new container reading from data, starting at offset 0.
func New(data []byte) *Container {
	return &Container{
		data: data,
	}
}

// Length returns the full length of the underlying data.
func (c *Container) Length() int {
	return len(c.data)
}

// Offset returns the current read position.
func (c *Container) Offset() int {
	return c.offset
}

// Remaining returns the amount of bytes after the current read position.
func (c *Container) Remaining() int {
	return len(c.data) - c.offset
}

// HoldsData returns true if there are unread bytes left.
func (c *Container) HoldsData() bool {
	return c.offset < len(c.data)
}

// Seek moves the read position to the given absolute offset. Seeking to the
// very end of the data is allowed.
func (c *Container) Seek(offset int) error {
	if err := CheckRange(offset, 0, len(c.data)); err != nil {
		return err
	}
	c.offset = offset
	return nil
}

// Skip advances the read position by n bytes.
func (c *Container) Skip(n int) error {
	if err := CheckRange(c.offset, n, len(c.data)); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// Peek returns the next n bytes. Data is NOT copied and NOT consumed.
func (c *Container) Peek(n int) ([]byte, error) {
	return c.Slice(c.offset, n)
}

// Get returns the next n bytes. Data is NOT copied and IS consumed.
func (c *Container) Get(n int) ([]byte, error) {
	buf, err := c.Slice(c.offset, n)
	if err != nil {
		return nil, err
	}
	c.offset += n
	return buf, nil
}

// Slice returns length bytes at the absolute offset, independent of the read
// position. Data is NOT copied.
func (c *Container) Slice(offset, length int) ([]byte, error) {
	if err := CheckRange(offset, length, len(c.data)); err != nil {
		return nil, err
	}
	return c.data[offset : offset+length : offset+length], nil
}

// GetUint8 returns the next byte.
func (c *Container) GetUint8() (uint8, error) {
	buf, err := c.Get(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// GetUint16LE returns the next two bytes as a little endian uint16.
func (c *Container) GetUint16LE() (uint16, error) {
	buf, err := c.Get(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// GetUint16BE returns the next two bytes as a big endian uint16.
func (c *Container) GetUint16BE() (uint16, error) {
	buf, err := c.Get(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// GetUint32LE returns the next four bytes as a little endian uint32.
func (c *Container) GetUint32LE() (uint32, error) {
	buf, err := c.Get(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// GetUint32BE returns the next four bytes as a big endian uint32.
func (c *Container) GetUint32BE() (uint32, error) {
	buf, err := c.Get(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// Sub returns a new Container over length bytes at the absolute offset.
func (c *Container) Sub(offset, length int) (*Container, error) {
	buf, err := c.Slice(offset, length)
	if err != nil {
		return nil, err
	}
	return New(buf), nil
}
