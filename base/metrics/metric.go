// Package metrics provides a registry of prometheus metrics backed by
// VictoriaMetrics.
package metrics

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	vm "github.com/VictoriaMetrics/metrics"
)

// PrometheusFormatRequirement is required format defined by prometheus for
// metric and label names.
const (
	prometheusBaseFormt         = "[a-zA-Z_][a-zA-Z0-9_]*"
	PrometheusFormatRequirement = "^" + prometheusBaseFormt + "$"
)

var prometheusFormat = regexp.MustCompile(PrometheusFormatRequirement)

// Metric represents one or more metrics.
type Metric interface {
	ID() string
	LabeledID() string
	Opts() *Options
	WritePrometheus(w io.Writer)
}

type metricBase struct {
	Identifier        string
	Labels            map[string]string
	LabeledIdentifier string
	Options           *Options
	set               *vm.Set
}

// Options can be used to set advanced metric settings.
type Options struct {
	// Name defines an optional human readable name for the metric.
	Name string

	// InternalID specifies an alternative ID that is used when exporting the
	// metric values in a structured format.
	InternalID string
}

func newMetricBase(id string, labels map[string]string, opts Options) (*metricBase, error) {
	// Check formats.
	if !prometheusFormat.MatchString(strings.ReplaceAll(id, "/", "_")) {
		return nil, fmt.Errorf("metric name %q must match %s", id, PrometheusFormatRequirement)
	}
	for labelName := range labels {
		if !prometheusFormat.MatchString(labelName) {
			return nil, fmt.Errorf("metric label name %q must match %s", labelName, PrometheusFormatRequirement)
		}
	}

	// Copy labels, as global labels are merged in.
	ownLabels := make(map[string]string, len(labels))
	for labelName, labelValue := range labels {
		ownLabels[labelName] = labelValue
	}

	base := &metricBase{
		Identifier: id,
		Labels:     ownLabels,
		Options:    &opts,
		set:        vm.NewSet(),
	}
	base.LabeledIdentifier = buildLabeledID(id, base.Labels)
	return base, nil
}

// ID returns the given ID of the metric.
func (m *metricBase) ID() string {
	return m.Identifier
}

// LabeledID returns the Prometheus-compatible labeled ID of the metric.
func (m *metricBase) LabeledID() string {
	return m.LabeledIdentifier
}

// Opts returns the metric options. They may not be modified.
func (m *metricBase) Opts() *Options {
	return m.Options
}

// WritePrometheus writes the metric in the prometheus format to the given writer.
func (m *metricBase) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

// buildLabeledID returns the namespaced metric name with the given and the
// global labels. It adds the global labels to the given map.
func buildLabeledID(id string, labels map[string]string) string {
	// The namespace and the global labels are frozen from here on.
	registryLock.Lock()
	defer registryLock.Unlock()
	firstMetricRegistered = true

	// Build ID from Identifier.
	metricID := strings.TrimSpace(strings.ReplaceAll(id, "/", "_"))

	// Add namespace to ID.
	if metricNamespace != "" {
		metricID = metricNamespace + "_" + metricID
	}

	// Return now if no labels are defined.
	if len(globalLabels) == 0 && len(labels) == 0 {
		return metricID
	}

	// Add global labels to the custom ones, if they don't exist yet.
	for labelName, labelValue := range globalLabels {
		if _, ok := labels[labelName]; !ok {
			labels[labelName] = labelValue
		}
	}

	// Render labels into a slice and sort them in order to make the labeled ID
	// reproducible.
	rendered := make([]string, 0, len(labels))
	for labelName, labelValue := range labels {
		rendered = append(rendered, fmt.Sprintf("%s=%q", labelName, labelValue))
	}
	sort.Strings(rendered)

	return fmt.Sprintf("%s{%s}", metricID, strings.Join(rendered, ","))
}
