// Package lookup resolves App Store app URLs to the URL of their artwork.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/iconcache"
)

// Defaults.
const (
	DefaultBaseURL = "https://itunes.apple.com/lookup"
	DefaultEntity  = "software"
	DefaultCountry = "CN"
	DefaultLang    = "zh"
	DefaultLimit   = 1
)

// Errors.
var (
	ErrInvalidAppURL = errors.New("invalid app URL")
	ErrAppNotFound   = errors.New("app not found")
	ErrInvalidReply  = errors.New("invalid lookup reply")
)

var (
	appIDRegex  = regexp.MustCompile(`/id(\d+)`)
	scriptRegex = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	tagRegex    = regexp.MustCompile(`<[^>]*>?`)
)

const cacheKeyPrefix = "appstore:"

// Fetcher loads resources.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (*fetch.Resource, error)
}

// Cache stores resolved artwork URLs.
type Cache interface {
	Get(key string) (*iconcache.Entry, error)
	Put(key string, entry *iconcache.Entry) error
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Entity  string
	Country string
	Lang    string
	Limit   int
}

// App is the result of a lookup.
type App struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	BundleID   string `json:"bundleId,omitempty"`
	ArtworkURL string `json:"artworkUrl"`
	Cached     bool   `json:"cached"`
}

// Client looks up apps.
type Client struct {
	fetcher Fetcher
	cache   Cache
	opts    Options
}

// New returns a new Client. The cache is optional.
func New(fetcher Fetcher, cache Cache, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Entity == "" {
		opts.Entity = DefaultEntity
	}
	if opts.Country == "" {
		opts.Country = DefaultCountry
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Client{
		fetcher: fetcher,
		cache:   cache,
		opts:    opts,
	}
}

// ParseAppID returns the numeric app ID of an App Store URL such as
// https://apps.apple.com/us/app/example/id1234567890. A bare ID is accepted
// too.
func ParseAppID(appURL string) (string, error) {
	appURL = strings.TrimSpace(appURL)
	if appURL != "" {
		if _, err := strconv.ParseUint(appURL, 10, 64); err == nil {
			return appURL, nil
		}
	}

	match := appIDRegex.FindStringSubmatch(appURL)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppURL, appURL)
	}
	return match[1], nil
}

// RequestURL returns the lookup request URL for an app ID.
func (c *Client) RequestURL(appID string) string {
	q := url.Values{}
	q.Set("id", appID)
	q.Set("entity", c.opts.Entity)
	q.Set("country", c.opts.Country)
	q.Set("lang", c.opts.Lang)
	q.Set("limit", strconv.Itoa(c.opts.Limit))

	if strings.Contains(c.opts.BaseURL, "?") {
		return c.opts.BaseURL + "&" + q.Encode()
	}
	return c.opts.BaseURL + "?" + q.Encode()
}

// Lookup resolves an app URL or ID to its app record.
func (c *Client) Lookup(ctx context.Context, appURL string) (*App, error) {
	appID, err := ParseAppID(appURL)
	if err != nil {
		return nil, err
	}
	tracer := log.Tracer(ctx)

	if c.cache != nil {
		if entry, err := c.cache.Get(cacheKeyPrefix + appID); err == nil {
			tracer.Debugf("lookup: using cached artwork for app %s: %s", appID, entry.Source)
			return &App{
				ID:         appID,
				ArtworkURL: entry.Source,
				Cached:     true,
			}, nil
		}
	}

	reqURL := c.RequestURL(appID)
	tracer.Tracef("lookup: requesting %s", reqURL)
	resource, err := c.fetcher.Fetch(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up app %s: %w", appID, err)
	}

	app, err := parseReply(resource.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to look up app %s: %w", appID, err)
	}
	app.ID = appID

	if c.cache != nil {
		err := c.cache.Put(cacheKeyPrefix+appID, &iconcache.Entry{
			Source: app.ArtworkURL,
		})
		if err != nil {
			tracer.Warningf("lookup: failed to cache artwork of app %s: %s", appID, err)
		}
	}

	tracer.Infof("lookup: app %s has artwork %s", appID, app.ArtworkURL)
	return app, nil
}

func parseReply(data []byte) (*App, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidReply
	}

	results := gjson.GetBytes(data, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing results", ErrInvalidReply)
	}
	first := results.Get("0")
	if !first.Exists() {
		return nil, ErrAppNotFound
	}

	artwork := first.Get("artworkUrl512")
	if artwork.Type != gjson.String || Sanitize(artwork.Str) == "" {
		return nil, fmt.Errorf("%w: no artwork", ErrAppNotFound)
	}

	return &App{
		Name:       Sanitize(first.Get("trackName").String()),
		BundleID:   Sanitize(first.Get("bundleId").String()),
		ArtworkURL: Sanitize(artwork.Str),
	}, nil
}

// Sanitize removes script blocks and markup tags from a reply string.
func Sanitize(s string) string {
	s = scriptRegex.ReplaceAllString(s, "")
	return tagRegex.ReplaceAllString(s, "")
}
