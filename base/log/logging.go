package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

// Severity describes a log level.
type Severity uint32

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

func (s Severity) toSLogLevel() slog.Level {
	switch s {
	case TraceLevel, DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarningLevel:
		return slog.LevelWarn
	case ErrorLevel, CriticalLevel:
		return slog.LevelError
	}
	// Failed to convert, return default log level
	return slog.LevelWarn
}

// Name returns the name of the log level.
func (s Severity) Name() string {
	switch s {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarningLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	default:
		return "none"
	}
}

// ParseLevel returns the level severity of a log level name.
// It returns 0 for unknown names.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warning", "warn":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "critical":
		return CriticalLevel
	}
	return 0
}

var (
	logLevelInt = uint32(InfoLevel)
	logLevel    = &logLevelInt

	started = abool.NewBool(false)
)

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// SetLogLevel sets a new log level.
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))

	// Keep slog users on the same level.
	setupSLog(level)
}

// Start starts the logging system. Before Start is called, logs are written
// to stdout at info level.
func Start(level string, logToStdout bool, logDir string) error {
	if !started.SetToIf(false, true) {
		return nil
	}

	// Parse log level argument.
	initialLogLevel := InfoLevel
	if level != "" {
		initialLogLevel = ParseLevel(level)
		if initialLogLevel == 0 {
			fmt.Fprintf(os.Stderr, "log warning: invalid log level %q, falling back to level info\n", level)
			initialLogLevel = InfoLevel
		}
	}

	// Setup writer.
	if !logToStdout {
		w, err := NewFileWriter(logDir)
		if err != nil {
			started.UnSet()
			return fmt.Errorf("failed to initialize log file: %w", err)
		}
		setGlobalWriter(w)
	}
	SetLogLevel(initialLogLevel)

	// Delete all logs older than one month.
	if !logToStdout {
		if err := CleanOldLogs(logDir, 30*24*time.Hour); err != nil {
			Errorf("log: failed to clean old log files: %s", err)
		}
	}

	return nil
}

// Shutdown closes the log writer. Logs written afterwards go to stdout.
func Shutdown() {
	if started.SetToIf(true, false) {
		setGlobalWriter(NewStdoutWriter()).Close()
	}
}
