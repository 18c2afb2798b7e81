package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
)

var (
	registry     []Metric
	registryLock sync.RWMutex

	firstMetricRegistered bool
	metricNamespace       string
	globalLabels          = make(map[string]string)

	// ErrAlreadyStarted is returned when an operation is only valid before the
	// first metric is registered, and is called after.
	ErrAlreadyStarted = errors.New("can only be changed before first metric is registered")

	// ErrAlreadyRegistered is returned when a metric with the same ID is
	// registered again.
	ErrAlreadyRegistered = errors.New("metric already registered")

	// ErrAlreadySet is returned when a value is already set and cannot be changed.
	ErrAlreadySet = errors.New("already set")

	// ErrInvalidOptions is returned when invalid options where provided.
	ErrInvalidOptions = errors.New("invalid options")
)

func register(m Metric) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	// Check if metric ID is already registered.
	for _, registeredMetric := range registry {
		if m.LabeledID() == registeredMetric.LabeledID() {
			return ErrAlreadyRegistered
		}
		if m.Opts().InternalID != "" &&
			m.Opts().InternalID == registeredMetric.Opts().InternalID {
			return fmt.Errorf("%w with this internal ID", ErrAlreadyRegistered)
		}
	}

	// Add new metric to registry and sort it.
	registry = append(registry, m)
	sort.Sort(byLabeledID(registry))

	return nil
}

func lookup(labeledID string) Metric {
	registryLock.RLock()
	defer registryLock.RUnlock()

	i := sort.Search(len(registry), func(i int) bool {
		return registry[i].LabeledID() >= labeledID
	})
	if i < len(registry) && registry[i].LabeledID() == labeledID {
		return registry[i]
	}
	return nil
}

// SetNamespace sets the namespace for all metrics. It is prefixed to all
// metric IDs.
// It must be set before any metric is registered.
// Does not affect golang runtime metrics.
func SetNamespace(namespace string) error {
	registryLock.Lock()
	defer registryLock.Unlock()
	if firstMetricRegistered {
		return ErrAlreadyStarted
	}

	// Check if the namespace is already set.
	if metricNamespace != "" {
		return ErrAlreadySet
	}

	metricNamespace = namespace
	return nil
}

// AddGlobalLabel adds a global label to all metrics.
// Global labels must be added before any metric is registered.
func AddGlobalLabel(name, value string) error {
	registryLock.Lock()
	defer registryLock.Unlock()
	if firstMetricRegistered {
		return ErrAlreadyStarted
	}

	// Check format.
	if !prometheusFormat.MatchString(name) {
		return fmt.Errorf("metric label name %q must match %s", name, PrometheusFormatRequirement)
	}

	globalLabels[name] = value
	return nil
}

// WriteMetrics writes all registered metrics to the given writer.
func WriteMetrics(w io.Writer) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	for _, metric := range registry {
		metric.WritePrometheus(w)
	}
}

// Handler returns an HTTP handler serving all registered metrics in the
// prometheus text format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		WriteMetrics(w)
	})
}

// UIntMetric is an interface for special functions of uint metrics.
type UIntMetric interface {
	CurrentValue() uint64
}

// ExportValues exports the values of all counters, keyed by their internal
// ID or, if not set, by their labeled ID.
func ExportValues() map[string]uint64 {
	registryLock.RLock()
	defer registryLock.RUnlock()

	export := make(map[string]uint64, len(registry))
	for _, metric := range registry {
		m, ok := metric.(UIntMetric)
		if !ok {
			continue
		}

		id := metric.Opts().InternalID
		if id == "" {
			id = metric.LabeledID()
		}
		export[id] = m.CurrentValue()
	}

	return export
}

type byLabeledID []Metric

func (r byLabeledID) Len() int           { return len(r) }
func (r byLabeledID) Less(i, j int) bool { return r[i].LabeledID() < r[j].LabeledID() }
func (r byLabeledID) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
