package metrics

import (
	"fmt"
	"sync"

	vm "github.com/VictoriaMetrics/metrics"
)

// Counter is a counter metric.
type Counter struct {
	*metricBase
	*vm.Counter
}

// NewCounter registers a new counter metric.
func NewCounter(id string, labels map[string]string, opts *Options) (*Counter, error) {
	// Ensure that there are options.
	if opts == nil {
		opts = &Options{}
	}

	// Make base.
	base, err := newMetricBase(id, labels, *opts)
	if err != nil {
		return nil, err
	}

	// Create metric struct.
	m := &Counter{
		metricBase: base,
	}

	// Create metric in set
	m.Counter = m.set.NewCounter(m.LabeledID())

	// Register metric.
	err = register(m)
	if err != nil {
		return nil, err
	}

	return m, nil
}

var getOrCreateLock sync.Mutex

// GetOrCreateCounter returns the registered counter with the given ID and
// labels, registering it if needed.
func GetOrCreateCounter(id string, labels map[string]string) (*Counter, error) {
	getOrCreateLock.Lock()
	defer getOrCreateLock.Unlock()

	base, err := newMetricBase(id, labels, Options{})
	if err != nil {
		return nil, err
	}
	if existing := lookup(base.LabeledID()); existing != nil {
		c, ok := existing.(*Counter)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a counter", ErrAlreadyRegistered, base.LabeledID())
		}
		return c, nil
	}

	return NewCounter(id, labels, nil)
}

// CurrentValue returns the current counter value.
func (c *Counter) CurrentValue() uint64 {
	return c.Get()
}
