package utils

import "fmt"

// FormatFileSize returns a human readable representation of the given amount
// of bytes, using binary multiples and two decimals.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1<<10:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1<<20:
		return fmt.Sprintf("%.2f KB", float64(bytes)/(1<<10))
	case bytes < 1<<30:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(1<<20))
	default:
		return fmt.Sprintf("%.2f GB", float64(bytes)/(1<<30))
	}
}
