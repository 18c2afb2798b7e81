package log

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

var counter atomic.Uint32

const (
	maxCount   uint32 = 999
	timeFormat string = "060102 15:04:05.000"
)

func (s Severity) String() string {
	switch s {
	case TraceLevel:
		return "TRAC"
	case DebugLevel:
		return "DEBU"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARN"
	case ErrorLevel:
		return "ERRO"
	case CriticalLevel:
		return "CRIT"
	default:
		return "NONE"
	}
}

func formatLine(line *logLine, useColor bool) string {
	colorStart := ""
	colorEnd := ""
	if useColor {
		colorStart = line.level.color()
		colorEnd = endColor()
	}

	count := counter.Add(1) % (maxCount + 1)

	var b strings.Builder
	if line.line == 0 {
		fmt.Fprintf(&b, "%s%s ? %s %s %03d%s %s", colorStart, line.timestamp.Format(timeFormat), rightArrow, line.level, count, colorEnd, line.msg)
	} else {
		fmt.Fprintf(&b, "%s%s %s:%03d %s %s %03d%s %s", colorStart, line.timestamp.Format(timeFormat), shortFile(line.file), line.line, rightArrow, line.level, count, colorEnd, line.msg)
	}

	if line.tracer == nil || len(line.tracer.logs) == 0 {
		return b.String()
	}

	// append full trace time
	fmt.Fprintf(&b, " Σ=%s", line.timestamp.Sub(line.tracer.logs[0].timestamp))

	// append all trace actions
	var d time.Duration
	for i, action := range line.tracer.logs {
		if useColor {
			colorStart = action.level.color()
		}
		if i == len(line.tracer.logs)-1 { // last
			d = line.timestamp.Sub(action.timestamp)
		} else {
			d = line.tracer.logs[i+1].timestamp.Sub(action.timestamp)
		}
		fmt.Fprintf(&b, "\n%s%19s %s:%03d %s %s%s     %s", colorStart, d, shortFile(action.file), action.line, rightArrow, action.level, colorEnd, action.msg)
	}

	return b.String()
}

// shortFile returns the last 10 characters of the file path.
func shortFile(file string) string {
	if len(file) > 10 {
		return file[len(file)-10:]
	}
	return file
}
