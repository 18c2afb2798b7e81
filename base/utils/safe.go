package utils

import (
	"encoding/hex"
	"strings"
)

// SafeFirst16Bytes returns a printable hex dump line of the first 16 bytes
// of data, for use in error messages.
func SafeFirst16Bytes(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}

	line, _, _ := strings.Cut(hex.Dump(data), "\n")
	return strings.TrimPrefix(line, "00000000  ")
}
