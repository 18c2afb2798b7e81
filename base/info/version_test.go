package info

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	t.Parallel()

	full := FullVersion()
	assert.True(t, strings.HasPrefix(full, "iconloader "), full)
	assert.Contains(t, full, "commit ")
	assert.True(t, strings.HasPrefix(UserAgent(), "iconloader/"), UserAgent())
	assert.NotContains(t, UserAgent(), "dev build")
}
