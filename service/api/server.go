// Package api serves loaded icons, container inspections and app artwork
// lookups over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/base/metrics"
	"github.com/safing/iconloader/service/icons"
	"github.com/safing/iconloader/service/icons/loader"
	"github.com/safing/iconloader/service/icons/lookup"
)

// IconLoader loads and inspects icon containers.
type IconLoader interface {
	Load(ctx context.Context, src string) (*loader.Result, error)
	Inspect(ctx context.Context, src string) (*icons.Inspection, error)
}

// AppLookup resolves app URLs to their artwork.
type AppLookup interface {
	Lookup(ctx context.Context, appURL string) (*lookup.App, error)
}

// Server is the HTTP API server.
type Server struct {
	router *mux.Router
	server *http.Server

	loader IconLoader
	lookup AppLookup
	// Debug adds stack traces to replies of panicked handlers.
	Debug bool
}

// New returns a new server listening on the given address once started.
// The app lookup is optional.
func New(listenAddress string, iconLoader IconLoader, appLookup AppLookup) *Server {
	s := &Server{
		router: mux.NewRouter(),
		loader: iconLoader,
		lookup: appLookup,
	}
	s.server = &http.Server{
		Addr:              listenAddress,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.HandleFunc("/icon", s.handleIcon).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/inspect", s.handleInspect).Methods(http.MethodGet)
	s.router.HandleFunc("/lookup", s.handleLookup).Methods(http.MethodGet)
	s.router.HandleFunc("/lookup/{id:[0-9]+}", s.handleLookup).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return s
}

// Serve listens and serves until the context is canceled.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	log.Infof("api: starting to listen on %s", listener.Addr())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				log.Warningf("api: failed to shut down server: %s", err)
			}
		case <-done:
		}
	}()

	err = s.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ServeHTTP handles a request with request tracing and panic recovery.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Setup context trace logging.
	ctx, tracer := log.AddTracer(r.Context())
	r = r.WithContext(ctx)
	lrw := NewLoggingResponseWriter(w, r)

	tracer.Tracef("api request: %s ___ %s %s", r.RemoteAddr, r.Method, r.RequestURI)
	defer func() {
		tracer.Debugf("api request: %s %d %s %s", r.RemoteAddr, lrw.Status, r.Method, r.RequestURI)
		tracer.Submit()
	}()

	// Add security headers.
	w.Header().Set("Referrer-Policy", "same-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "deny")

	// Format panics in handler.
	defer func() {
		if panicValue := recover(); panicValue != nil {
			log.Errorf("api: handler panic: %s", panicValue)
			if s.Debug {
				http.Error(
					lrw,
					fmt.Sprintf("Internal Server Error: %s\n\n%s", panicValue, debug.Stack()),
					http.StatusInternalServerError,
				)
			} else {
				http.Error(lrw, "Internal Server Error.", http.StatusInternalServerError)
			}
		}
	}()

	s.router.ServeHTTP(lrw, r)
}
