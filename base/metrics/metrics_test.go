package metrics

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Parallel()

	c, err := NewCounter("test/counter/total", map[string]string{"kind": "a"}, &Options{InternalID: "test_counter_a"})
	require.NoError(t, err)
	assert.Equal(t, `test_counter_total{kind="a"}`, c.LabeledID())
	c.Inc()
	c.Add(2)
	assert.Equal(t, uint64(3), c.CurrentValue())

	_, err = NewCounter("test/counter/total", map[string]string{"kind": "a"}, nil)
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = NewCounter("test/counter-invalid", nil, nil)
	require.Error(t, err)

	assert.Equal(t, uint64(3), ExportValues()["test_counter_a"])

	buf := &bytes.Buffer{}
	WriteMetrics(buf)
	assert.Contains(t, buf.String(), `test_counter_total{kind="a"} 3`)
}

func TestGetOrCreateCounter(t *testing.T) {
	t.Parallel()

	labels := map[string]string{"format": "ico", "result": "none"}
	a, err := GetOrCreateCounter("test/loads/total", labels)
	require.NoError(t, err)
	b, err := GetOrCreateCounter("test/loads/total", map[string]string{"result": "none", "format": "ico"})
	require.NoError(t, err)
	assert.Same(t, a, b)

	// The given labels are not modified.
	assert.Len(t, labels, 2)

	_, err = NewHistogram("test/histogram", nil, nil)
	require.NoError(t, err)
	_, err = GetOrCreateCounter("test/histogram", nil)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestFetchingCounterAndHandler(t *testing.T) {
	t.Parallel()

	_, err := NewFetchingCounter("test/fetching/total", nil, func() uint64 {
		return 42
	}, Options{})
	require.NoError(t, err)

	_, err = NewFetchingCounter("test/fetching/nofunc", nil, nil, Options{})
	require.ErrorIs(t, err, ErrInvalidOptions)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_fetching_total 42")
	assert.Equal(t, uint64(42), ExportValues()["test_fetching_total"])
}

func TestRelabelLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", relabelLine("# HELP go_goroutines"))
	assert.Equal(t, "", relabelLine(""))
}

func TestRegisterLogMetrics(t *testing.T) {
	t.Parallel()

	require.NoError(t, RegisterLogMetrics())
	require.ErrorIs(t, RegisterLogMetrics(), ErrAlreadyRegistered)

	values := ExportValues()
	for _, id := range []string{"logs_warning_total", "logs_error_total", "logs_critical_total"} {
		assert.Contains(t, values, id)
	}
}
