package log

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// ContextTracerKey is the key used for the context key/value storage.
type ContextTracerKey struct{}

// ContextTracer is attached to a context in order bind logs to a context.
// All lines are written together, as one entry, when Submit is called.
type ContextTracer struct {
	sync.Mutex
	logs []*logLine
}

var key = ContextTracerKey{}

// AddTracer adds a ContextTracer to the returned Context. Will return a nil ContextTracer if logging level is not set to trace. Will return a nil ContextTracer if one already exists.
func AddTracer(ctx context.Context) (context.Context, *ContextTracer) {
	if ctx == nil || !fastcheck(TraceLevel) {
		return ctx, nil
	}

	// check for existing tracer
	if _, ok := ctx.Value(key).(*ContextTracer); ok {
		return ctx, nil
	}

	tracer := &ContextTracer{}
	return context.WithValue(ctx, key, tracer), tracer
}

// Tracer returns the ContextTracer previously added to the given Context.
func Tracer(ctx context.Context) *ContextTracer {
	if ctx != nil {
		tracer, ok := ctx.Value(key).(*ContextTracer)
		if ok {
			return tracer
		}
	}
	return nil
}

// Submit writes the collected logs. The last collected line is used as the
// main line. Does nothing if called on a nil ContextTracer.
func (tracer *ContextTracer) Submit() {
	if tracer == nil {
		return
	}

	tracer.Lock()
	if len(tracer.logs) == 0 {
		tracer.Unlock()
		return
	}
	mainLine := tracer.logs[len(tracer.logs)-1]
	submitted := &ContextTracer{logs: tracer.logs[:len(tracer.logs)-1]}
	tracer.logs = nil
	tracer.Unlock()

	getGlobalWriter().WriteMessage(&logLine{
		msg:       mainLine.msg,
		tracer:    submitted,
		level:     mainLine.level,
		timestamp: mainLine.timestamp,
		file:      mainLine.file,
		line:      mainLine.line,
	})
}

func (tracer *ContextTracer) log(level Severity, msg string) {
	// get file and line
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = ""
		line = 0
	} else {
		if len(file) > 3 {
			file = file[:len(file)-3]
		} else {
			file = ""
		}
	}

	tracer.Lock()
	defer tracer.Unlock()
	tracer.logs = append(tracer.logs, &logLine{
		timestamp: time.Now(),
		level:     level,
		msg:       msg,
		file:      file,
		line:      line,
	})
}

// Trace is used to log tiny steps. Log traces to context if you can!
func (tracer *ContextTracer) Trace(msg string) {
	switch {
	case tracer != nil:
		tracer.log(TraceLevel, msg)
	case fastcheck(TraceLevel):
		log(TraceLevel, msg, nil)
	}
}

// Tracef is used to log tiny steps. Log traces to context if you can!
func (tracer *ContextTracer) Tracef(format string, things ...interface{}) {
	switch {
	case tracer != nil:
		tracer.log(TraceLevel, fmt.Sprintf(format, things...))
	case fastcheck(TraceLevel):
		log(TraceLevel, fmt.Sprintf(format, things...), nil)
	}
}

// Debugf is used to log minor errors or unexpected events.
func (tracer *ContextTracer) Debugf(format string, things ...interface{}) {
	switch {
	case tracer != nil:
		tracer.log(DebugLevel, fmt.Sprintf(format, things...))
	case fastcheck(DebugLevel):
		log(DebugLevel, fmt.Sprintf(format, things...), nil)
	}
}

// Infof is used to log mildly significant events.
func (tracer *ContextTracer) Infof(format string, things ...interface{}) {
	switch {
	case tracer != nil:
		tracer.log(InfoLevel, fmt.Sprintf(format, things...))
	case fastcheck(InfoLevel):
		log(InfoLevel, fmt.Sprintf(format, things...), nil)
	}
}

// Warningf is used to log (potentially) bad events, but nothing broke.
func (tracer *ContextTracer) Warningf(format string, things ...interface{}) {
	switch {
	case tracer != nil:
		tracer.log(WarningLevel, fmt.Sprintf(format, things...))
	case fastcheck(WarningLevel):
		log(WarningLevel, fmt.Sprintf(format, things...), nil)
	}
}

// Errorf is used to log errors that break or impair functionality.
func (tracer *ContextTracer) Errorf(format string, things ...interface{}) {
	switch {
	case tracer != nil:
		tracer.log(ErrorLevel, fmt.Sprintf(format, things...))
	case fastcheck(ErrorLevel):
		log(ErrorLevel, fmt.Sprintf(format, things...), nil)
	}
}
