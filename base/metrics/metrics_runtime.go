package metrics

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/iconloader/base/log"
)

// RegisterRuntimeMetrics registers the go runtime and process metrics.
func RegisterRuntimeMetrics() error {
	runtimeBase, err := newMetricBase("_runtime", nil, Options{
		Name: "Golang Runtime",
	})
	if err != nil {
		return err
	}

	return register(&runtimeMetrics{
		metricBase: runtimeBase,
	})
}

type runtimeMetrics struct {
	*metricBase
}

func (r *runtimeMetrics) WritePrometheus(w io.Writer) {
	// If there nothing to change, just write directly to w.
	if metricNamespace == "" && len(globalLabels) == 0 {
		vm.WriteProcessMetrics(w)
		return
	}

	buf := new(bytes.Buffer)
	vm.WriteProcessMetrics(buf)

	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		if line := relabelLine(scanner.Text()); line != "" {
			_, _ = fmt.Fprintln(w, line)
		}
	}
	if scanner.Err() != nil {
		log.Warningf("metrics: failed to scan go process metrics: %s", scanner.Err())
	}
}

// relabelLine adds the namespace and the global labels to a line of the
// prometheus text format. Comments are dropped.
func relabelLine(line string) string {
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	if metricNamespace != "" {
		line = metricNamespace + "_" + line
	}
	if len(globalLabels) == 0 {
		return line
	}

	labels := make([]string, 0, len(globalLabels))
	for labelName, labelValue := range globalLabels {
		labels = append(labels, fmt.Sprintf("%s=%q", labelName, labelValue))
	}
	sort.Strings(labels)
	rendered := strings.Join(labels, ",")

	// Merge with existing labels.
	if i := strings.Index(line, "{"); i >= 0 {
		return line[:i+1] + rendered + "," + line[i+1:]
	}
	i := strings.Index(line, " ")
	if i < 0 {
		return ""
	}
	return line[:i] + "{" + rendered + "}" + line[i:]
}
