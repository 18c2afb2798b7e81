package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/service/icons"
	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/lookup"
	"github.com/safing/iconloader/service/icons/materialize"
)

// handleIcon replies with the image of the best icon of the container given
// by the src parameter, as PNG or, with format=dataurl, as data URL text.
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	src, ok := remoteSource(w, r)
	if !ok {
		return
	}

	result, err := s.loader.Load(r.Context(), src)
	if err != nil {
		writeError(w, r, statusOf(err), err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "png":
		writeData(w, result.Image.MimeType, result.Image.Data)
	case "dataurl":
		writeData(w, "text/plain; charset=utf-8", []byte(result.Image.DataURL()))
	default:
		writeError(w, r, http.StatusBadRequest, errors.New("unsupported reply format"))
	}
}

// handleInspect replies with the list of images in the container given by
// the src parameter.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	src, ok := remoteSource(w, r)
	if !ok {
		return
	}

	inspection, err := s.loader.Inspect(r.Context(), src)
	if err != nil {
		writeError(w, r, statusOf(err), err)
		return
	}
	writeJSON(w, r, http.StatusOK, inspection)
}

// handleLookup replies with the artwork URL of the app given by the id path
// variable or the app parameter.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeError(w, r, http.StatusNotFound, errors.New("app lookup is disabled"))
		return
	}

	app := mux.Vars(r)["id"]
	if app == "" {
		app = r.URL.Query().Get("app")
	}

	result, err := s.lookup.Lookup(r.Context(), app)
	if err != nil {
		writeError(w, r, statusOf(err), err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// remoteSource returns the src parameter. Only http and https sources are
// served, so clients cannot read local files.
func remoteSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	src := r.URL.Query().Get("src")
	if src == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("missing src parameter"))
		return "", false
	}
	if _, err := fetch.CheckRemote(src); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return "", false
	}
	return src, true
}

// statusOf returns the reply status for a failed request.
func statusOf(err error) int {
	switch {
	case errors.Is(err, icons.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case icons.KindOf(err) != "other",
		errors.Is(err, materialize.ErrEmptyPayload),
		errors.Is(err, materialize.ErrUnsupportedPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lookup.ErrInvalidAppURL),
		errors.Is(err, fetch.ErrLocalNotAllowed),
		errors.Is(err, fetch.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, lookup.ErrAppNotFound):
		return http.StatusNotFound
	default:
		// Everything else failed while fetching.
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	reply := ErrorReply{Error: err.Error()}
	// Decode details quote the fetched bytes.
	var decodeErr *icons.DecodeError
	if errors.As(err, &decodeErr) {
		reply.Error = decodeErr.Summary()
	}
	if kind := icons.KindOf(err); kind != "other" {
		reply.Kind = kind
	}

	if status >= http.StatusInternalServerError {
		log.Tracer(r.Context()).Warningf("api: request failed: %s", err)
	} else {
		log.Tracer(r.Context()).Debugf("api: request failed: %s", err)
	}
	writeJSON(w, r, status, reply)
}
