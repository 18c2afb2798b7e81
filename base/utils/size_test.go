package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "1023 B", FormatFileSize(1023))
	assert.Equal(t, "1.00 KB", FormatFileSize(1024))
	assert.Equal(t, "1.50 KB", FormatFileSize(1536))
	assert.Equal(t, "1.00 MB", FormatFileSize(1<<20))
	assert.Equal(t, "2.50 GB", FormatFileSize(5<<29))
}
