package icons

import (
	"errors"
	"fmt"
)

// Decode errors. Every error returned by this package matches exactly one of
// them via errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported icon container format")
	ErrInvalidMagic      = errors.New("invalid magic number")
	ErrInvalidHeader     = errors.New("invalid header")
	ErrTruncatedBuffer   = errors.New("truncated buffer")
	ErrNoSuitableIcon    = errors.New("no suitable icon found")
)

// DecodeError is the structured error returned by the decoders.
type DecodeError struct {
	// Format is the container format that was being decoded.
	Format Format
	// Offset is the position in the buffer where decoding failed.
	Offset int
	// Err is one of the package level decode errors.
	Err error
	// Detail optionally describes the failed check.
	Detail string
	// Cause optionally holds the underlying error.
	Cause error
}

func (e *DecodeError) Error() string {
	msg := e.Summary()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Summary describes the error without the detail and cause, which may quote
// buffer contents.
func (e *DecodeError) Summary() string {
	return fmt.Sprintf("%s: %s at offset %d", e.Format, e.Err, e.Offset)
}

// Unwrap returns the decode error kind and, if set, the cause.
func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func newDecodeError(format Format, offset int, kind error, detail string, cause error) *DecodeError {
	return &DecodeError{
		Format: format,
		Offset: offset,
		Err:    kind,
		Detail: detail,
		Cause:  cause,
	}
}

func truncated(format Format, offset int, cause error) *DecodeError {
	return newDecodeError(format, offset, ErrTruncatedBuffer, "", cause)
}

// KindOf returns a short stable name for the kind of the given decode error,
// or "other" if it is not a decode error.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrInvalidMagic):
		return "invalid_magic"
	case errors.Is(err, ErrInvalidHeader):
		return "invalid_header"
	case errors.Is(err, ErrTruncatedBuffer):
		return "truncated_buffer"
	case errors.Is(err, ErrNoSuitableIcon):
		return "no_suitable_icon"
	default:
		return "other"
	}
}
