package log

import (
	"log/slog"

	"github.com/lmittmann/tint"
)

// setupSLog routes the default slog logger, as used by libraries, into the
// current log writer.
func setupSLog(level Severity) {
	w := getGlobalWriter()
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		AddSource:  true,
		Level:      level.toSLogLevel(),
		TimeFormat: timeFormat,
		NoColor:    !w.IsStdout(),
	})))
}
