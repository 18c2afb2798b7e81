package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const logFileTimeFormat = "2006-01-02-15-04-05"

var globalWriter atomic.Pointer[LogWriter]

func init() {
	globalWriter.Store(NewStdoutWriter())
}

func getGlobalWriter() *LogWriter {
	return globalWriter.Load()
}

// setGlobalWriter replaces the global writer and returns the previous one.
func setGlobalWriter(w *LogWriter) *LogWriter {
	return globalWriter.Swap(w)
}

// LogWriter writes formatted log lines to stdout or a file.
type LogWriter struct {
	writeLock sync.Mutex
	isStdout  bool
	file      *os.File
}

// NewStdoutWriter creates a new log writer thet will write to the stdout.
func NewStdoutWriter() *LogWriter {
	return &LogWriter{
		file:     os.Stdout,
		isStdout: true,
	}
}

// NewFileWriter creates a new log writer that will write to a file. The file path will be <dir>/2006-01-02-15-04-05.log (with current date and time)
func NewFileWriter(dir string) (*LogWriter, error) {
	if err := os.MkdirAll(dir, 0o0755); err != nil {
		return nil, err
	}
	logFile := fmt.Sprintf("%s.log", time.Now().UTC().Format(logFileTimeFormat))
	file, err := os.Create(filepath.Join(dir, logFile))
	if err != nil {
		return nil, err
	}
	return &LogWriter{
		file: file,
	}, nil
}

// Write writes the buffer to the writer.
func (l *LogWriter) Write(buf []byte) (int, error) {
	if l == nil {
		return 0, fmt.Errorf("log writer not initialized")
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()

	return l.file.Write(buf)
}

// WriteMessage formats and writes the log line.
func (l *LogWriter) WriteMessage(line *logLine) {
	if l == nil {
		return
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()

	fmt.Fprintln(l.file, formatLine(line, l.isStdout))
}

// IsStdout returns true if writer was initialized with stdout
func (l *LogWriter) IsStdout() bool {
	return l != nil && l.isStdout
}

// Close closes the writer.
func (l *LogWriter) Close() {
	if l != nil && !l.isStdout {
		_ = l.file.Close()
	}
}

// CleanOldLogs clean all logs in dir that are older then threshold.
func CleanOldLogs(dir string, threshold time.Duration) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read dir: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		logDate, err := time.Parse(logFileTimeFormat, strings.TrimSuffix(f.Name(), ".log"))
		if err != nil {
			continue
		}

		if logDate.Add(threshold).Before(time.Now()) {
			_ = os.Remove(filepath.Join(dir, f.Name()))
		}
	}
	return nil
}
