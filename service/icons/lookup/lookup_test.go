package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/iconcache"
)

func TestParseAppID(t *testing.T) {
	t.Parallel()

	id, err := ParseAppID("https://apps.apple.com/cn/app/wechat/id414478124?mt=8")
	require.NoError(t, err)
	assert.Equal(t, "414478124", id)

	id, err = ParseAppID(" 414478124 ")
	require.NoError(t, err)
	assert.Equal(t, "414478124", id)

	_, err = ParseAppID("https://apps.apple.com/cn/app/wechat")
	require.ErrorIs(t, err, ErrInvalidAppURL)
	_, err = ParseAppID("")
	require.ErrorIs(t, err, ErrInvalidAppURL)
}

func TestRequestURL(t *testing.T) {
	t.Parallel()

	c := New(nil, nil, Options{})
	assert.Equal(t,
		"https://itunes.apple.com/lookup?country=CN&entity=software&id=42&lang=zh&limit=1",
		c.RequestURL("42"),
	)

	c = New(nil, nil, Options{BaseURL: "http://localhost/lookup?x=1", Country: "US", Lang: "en", Limit: 3})
	assert.Equal(t,
		"http://localhost/lookup?x=1&country=US&entity=software&id=42&lang=en&limit=3",
		c.RequestURL("42"),
	)
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hi there", Sanitize("<b>Hi</b> <SCRIPT type=\"x\">alert(1)</script>there"))
	assert.Equal(t, "https://example.com/a.png", Sanitize("https://example.com/a.png"))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("id") {
		case "1":
			_, _ = w.Write([]byte(`{"resultCount":1,"results":[{
				"trackName":"<i>Example</i> App<script>steal()</script>",
				"bundleId":"com.example.app",
				"artworkUrl512":"https://example.com/512x512bb.jpg"
			}]}`))
		case "2":
			_, _ = w.Write([]byte(`{"resultCount":0,"results":[]}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	cache, err := iconcache.New(iconcache.Options{})
	require.NoError(t, err)
	c := New(fetch.New(fetch.Options{}), cache, Options{BaseURL: srv.URL})

	app, err := c.Lookup(context.Background(), "https://apps.apple.com/cn/app/example/id1")
	require.NoError(t, err)
	assert.Equal(t, &App{
		ID:         "1",
		Name:       "Example App",
		BundleID:   "com.example.app",
		ArtworkURL: "https://example.com/512x512bb.jpg",
	}, app)

	// Served from cache.
	app, err = c.Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, app.Cached)
	assert.Equal(t, "https://example.com/512x512bb.jpg", app.ArtworkURL)
	assert.Equal(t, int32(1), requests.Load())

	_, err = c.Lookup(context.Background(), "https://apps.apple.com/app/id2")
	require.ErrorIs(t, err, ErrAppNotFound)

	_, err = c.Lookup(context.Background(), "https://apps.apple.com/app/id3")
	require.ErrorIs(t, err, ErrInvalidReply)

	_, err = c.Lookup(context.Background(), "https://apps.apple.com/app/")
	require.ErrorIs(t, err, ErrInvalidAppURL)
	assert.Equal(t, int32(3), requests.Load())
}
