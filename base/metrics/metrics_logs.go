package metrics

import (
	"github.com/safing/iconloader/base/log"
)

var logLineCounters = []struct {
	level string
	name  string
	fetch func() uint64
}{
	{"warning", "Total Warning Log Lines", log.TotalWarningLogLines},
	{"error", "Total Error Log Lines", log.TotalErrorLogLines},
	{"critical", "Total Critical Log Lines", log.TotalCriticalLogLines},
}

// RegisterLogMetrics registers counters for the written warning, error and
// critical log lines.
func RegisterLogMetrics() error {
	for _, c := range logLineCounters {
		_, err := NewFetchingCounter("logs/"+c.level+"/total", nil, c.fetch, Options{Name: c.name})
		if err != nil {
			return err
		}
	}
	return nil
}
