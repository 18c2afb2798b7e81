// Package container provides a read cursor over a borrowed []byte slice with
// checked access to fixed-width integers and sub-slices.
//
// Every read is validated against the length of the underlying slice before
// it happens. A read that would leave the slice fails with a *RangeError,
// which matches ErrNotEnoughData via errors.Is. Data is never copied: byte
// slices returned by the Container alias the original buffer.
//
// Offsets handed to the Container usually come straight out of untrusted
// file headers, so all range arithmetic is overflow safe:
//
//	c := container.New(data)
//	magic, err := c.GetUint32BE()
//	...
//	payload, err := c.Slice(int(entry.Offset), int(entry.Size))
package container
