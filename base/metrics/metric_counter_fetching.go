package metrics

import (
	"fmt"
	"io"
)

// FetchingCounter is a counter whose value is read from a function whenever
// it is exported.
type FetchingCounter struct {
	*metricBase
	fetch func() uint64
}

// NewFetchingCounter registers a counter that reports the value of fn.
// fn must be safe for concurrent use.
func NewFetchingCounter(id string, labels map[string]string, fn func() uint64, opts Options) (*FetchingCounter, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %s has no fetch function", ErrInvalidOptions, id)
	}

	base, err := newMetricBase(id, labels, opts)
	if err != nil {
		return nil, err
	}
	m := &FetchingCounter{
		metricBase: base,
		fetch:      fn,
	}

	// Read on export.
	m.set.NewGauge(m.LabeledID(), func() float64 {
		return float64(m.fetch())
	})
	if err := register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CurrentValue returns the current counter value.
func (fc *FetchingCounter) CurrentValue() uint64 {
	return fc.fetch()
}

// WritePrometheus writes the metric in the prometheus format to the given writer.
func (fc *FetchingCounter) WritePrometheus(w io.Writer) {
	fc.set.WritePrometheus(w)
}

var _ UIntMetric = &FetchingCounter{}
