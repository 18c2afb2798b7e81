package api

import (
	"encoding/json"
	"net/http"

	"github.com/safing/iconloader/base/log"
)

// LoggingResponseWriter is a wrapper for http.ResponseWriter for better request logging.
type LoggingResponseWriter struct {
	ResponseWriter http.ResponseWriter
	Request        *http.Request
	Status         int
	Written        int
}

// NewLoggingResponseWriter wraps a http.ResponseWriter.
func NewLoggingResponseWriter(w http.ResponseWriter, r *http.Request) *LoggingResponseWriter {
	return &LoggingResponseWriter{
		ResponseWriter: w,
		Request:        r,
	}
}

// Header wraps the original Header method.
func (lrw *LoggingResponseWriter) Header() http.Header {
	return lrw.ResponseWriter.Header()
}

// Write wraps the original Write method.
func (lrw *LoggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.Status == 0 {
		lrw.Status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.Written += n
	return n, err
}

// WriteHeader wraps the original WriteHeader method to extract information.
func (lrw *LoggingResponseWriter) WriteHeader(code int) {
	lrw.Status = code
	lrw.ResponseWriter.WriteHeader(code)
}

// ErrorReply is the body of failed requests.
type ErrorReply struct {
	Error string `json:"error"`
	// Kind is the decode error kind, if the request failed while decoding.
	Kind string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Tracer(r.Context()).Errorf("api: failed to encode reply: %s", err)
		http.Error(w, "Internal Server Error.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeData(w http.ResponseWriter, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
