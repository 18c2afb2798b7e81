// Package icons extracts embedded images from native icon containers.
//
// Two container formats are understood: Apple icon files (ICNS), a sequence
// of typed and length prefixed chunks, and Windows icon files (ICO), a fixed
// header followed by a directory of image records. Decoding works on a
// complete in-memory buffer, performs no I/O and keeps no state between
// calls, so it is safe to decode many buffers in parallel.
//
// The selected payload is returned as a sub-slice of the input buffer. It is
// only valid as long as the caller keeps the buffer alive and unmodified; use
// SelectedIcon.Clone to copy it out.
package icons
