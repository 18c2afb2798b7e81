// Package fetch loads icon container bytes from URLs and local files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/safing/iconloader/base/log"
)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second
	DefaultMaxSize = 10_000_000
)

// Errors.
var (
	ErrTooLarge          = errors.New("resource too large")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrLocalNotAllowed   = errors.New("local files are not allowed")
)

// StatusError is returned for HTTP responses with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: HTTP %s", e.URL, e.Status)
}

// Resource is a fully loaded resource.
type Resource struct {
	// Source is the URL or path the resource was loaded from.
	Source string
	// Name is the file name hint of the resource, usually the URL path.
	Name string
	// ContentType is the content type announced by the server, if any.
	ContentType string
	Data        []byte
}

// Options configure a Fetcher.
type Options struct {
	Timeout time.Duration
	MaxSize int64
	// Client is used for HTTP requests. Defaults to a new client.
	Client *http.Client
	// UserAgent is sent with HTTP requests, if set.
	UserAgent string
	// RemoteOnly restricts sources to http and https URLs.
	RemoteOnly bool
}

// Fetcher loads resources over HTTP(S) or from the filesystem.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxSize    int64
	userAgent  string
	remoteOnly bool
}

// New returns a new Fetcher.
func New(opts Options) *Fetcher {
	f := &Fetcher{
		client:     opts.Client,
		timeout:    opts.Timeout,
		maxSize:    opts.MaxSize,
		userAgent:  opts.UserAgent,
		remoteOnly: opts.RemoteOnly,
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.maxSize <= 0 {
		f.maxSize = DefaultMaxSize
	}
	return f
}

// Fetch loads the complete resource at src, which is an http(s) or file URL,
// or a plain filesystem path. Remote only fetchers accept http(s) URLs only.
func (f *Fetcher) Fetch(ctx context.Context, src string) (*Resource, error) {
	if f.remoteOnly {
		u, err := CheckRemote(src)
		if err != nil {
			return nil, err
		}
		return f.get(ctx, u)
	}

	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return f.readFile(src, src)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing host", ErrUnsupportedScheme)
		}
		return f.get(ctx, u)
	case "file":
		return f.readFile(src, filepath.FromSlash(u.Path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

// CheckRemote parses src and fails unless it is an http or https URL with a
// host.
func CheckRemote(src string) (*url.URL, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return nil, ErrLocalNotAllowed
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing host", ErrUnsupportedScheme)
		}
		return u, nil
	case "file":
		return nil, ErrLocalNotAllowed
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) (*Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	log.Tracer(ctx).Tracef("fetch: requesting %s", u)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			URL:        u.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}
	if resp.ContentLength > f.maxSize {
		return nil, fmt.Errorf("%w: %s announces %d bytes", ErrTooLarge, u, resp.ContentLength)
	}

	data, err := readLimited(resp.Body, f.maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}

	return &Resource{
		Source:      u.String(),
		Name:        u.Path,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (f *Fetcher) readFile(src, path string) (*Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := readLimited(file, f.maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Resource{
		Source: src,
		Name:   path,
		Data:   data,
	}, nil
}

// readLimited reads all of r, failing if it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// isWindowsDrive reports whether a parsed URL scheme is actually a drive
// letter, as in C:\icons\app.ico.
func isWindowsDrive(scheme string) bool {
	return len(scheme) == 1
}
