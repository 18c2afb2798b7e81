// Package loader loads icon containers and turns their best icon into a
// displayable image, caching the result by source.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/base/metrics"
	"github.com/safing/iconloader/service/icons"
	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/iconcache"
	"github.com/safing/iconloader/service/icons/materialize"
)

// DefaultParallelism is the amount of concurrent loads of LoadAll.
const DefaultParallelism = 4

// cacheKeyPrefix separates icon entries from other entries in a shared cache.
const cacheKeyPrefix = "icon:"

// Fetcher loads resources.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (*fetch.Resource, error)
}

// Cache stores loaded images.
type Cache interface {
	Get(key string) (*iconcache.Entry, error)
	Put(key string, entry *iconcache.Entry) error
}

// Materializer converts selected icons into images.
type Materializer interface {
	Materialize(icon *icons.SelectedIcon) (*materialize.Image, error)
}

// Options configure a Loader.
type Options struct {
	Decode      icons.Options
	Parallelism int
}

// Result is the result of loading one source.
type Result struct {
	Source string
	Image  *materialize.Image
	// Icon is the selected icon. It is nil for cached results.
	Icon   *icons.SelectedIcon
	Cached bool
}

// Loader loads icons. It is safe for concurrent use.
type Loader struct {
	fetcher      Fetcher
	cache        Cache
	materializer Materializer
	opts         Options
}

// New returns a new Loader. The cache is optional.
func New(fetcher Fetcher, cache Cache, materializer Materializer, opts Options) *Loader {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	return &Loader{
		fetcher:      fetcher,
		cache:        cache,
		materializer: materializer,
		opts:         opts,
	}
}

// Load returns the image of the best icon of the container at src.
func (l *Loader) Load(ctx context.Context, src string) (*Result, error) {
	ctx, tracer := log.AddTracer(ctx)
	defer tracer.Submit()
	started := time.Now()

	if l.cache != nil {
		entry, err := l.cache.Get(cacheKeyPrefix + src)
		switch {
		case err == nil && len(entry.Data) == 0:
			tracer.Warningf("loader: ignoring cached entry without image data for %s", src)
		case err == nil:
			tracer.Debugf("loader: using cached icon for %s", src)
			countLoad("cached", "none")
			return &Result{
				Source: src,
				Image: &materialize.Image{
					MimeType: entry.MimeType,
					Data:     entry.Data,
					Width:    entry.Width,
					Height:   entry.Height,
				},
				Cached: true,
			}, nil
		case !errors.Is(err, iconcache.ErrNotFound):
			tracer.Warningf("loader: failed to read cache for %s: %s", src, err)
		}
	}

	resource, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		countLoad("unknown", "fetch_failed")
		tracer.Warningf("loader: %s", err)
		return nil, err
	}
	tracer.Tracef("loader: fetched %d bytes from %s", len(resource.Data), src)

	icon, err := icons.DecodeWithOptions(resource.Data, src, l.opts.Decode)
	if err != nil {
		countLoad(formatOf(err), icons.KindOf(err))
		tracer.Warningf("loader: failed to decode %s: %s", src, err)
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	tracer.Debugf("loader: selected %s", icon)

	img, err := l.materializer.Materialize(icon)
	if err != nil {
		countLoad(icon.Format.String(), "materialize_failed")
		tracer.Warningf("loader: failed to materialize icon of %s: %s", src, err)
		return nil, fmt.Errorf("failed to materialize icon of %s: %w", src, err)
	}

	if l.cache != nil {
		err := l.cache.Put(cacheKeyPrefix+src, &iconcache.Entry{
			MimeType: img.MimeType,
			Data:     img.Data,
			Width:    img.Width,
			Height:   img.Height,
			Source:   src,
		})
		if err != nil {
			tracer.Warningf("loader: failed to cache icon of %s: %s", src, err)
		}
	}

	countLoad(icon.Format.String(), "none")
	if h := loadDuration(); h != nil {
		h.UpdateDuration(started)
	}
	tracer.Infof("loader: loaded %dx%d %s from %s", img.Width, img.Height, img.MimeType, src)

	return &Result{
		Source: src,
		Image:  img,
		Icon:   icon,
	}, nil
}

// LoadAll loads all sources concurrently. The returned results are in the
// order of the sources and nil for failed loads. All failures are returned
// together as one error. Duplicate sources are loaded once.
func (l *Loader) LoadAll(ctx context.Context, sources []string) ([]*Result, error) {
	results := make([]*Result, len(sources))
	errs := make([]error, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.opts.Parallelism)

	for i, src := range sources {
		if slices.Index(sources, src) != i {
			continue
		}
		group.Go(func() error {
			result, err := l.Load(groupCtx, src)
			results[i] = result
			errs[i] = err
			return nil
		})
	}
	_ = group.Wait()

	var merr *multierror.Error
	for i, src := range sources {
		first := slices.Index(sources, src)
		if first != i {
			results[i] = results[first]
			continue
		}
		if errs[i] != nil {
			merr = multierror.Append(merr, errs[i])
		}
	}

	return results, merr.ErrorOrNil()
}

// Inspect lists the contents of the container at src.
func (l *Loader) Inspect(ctx context.Context, src string) (*icons.Inspection, error) {
	resource, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return icons.Inspect(resource.Data, src, l.opts.Decode.StrictSniff)
}

func formatOf(err error) string {
	var decodeErr *icons.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Format.String()
	}
	return icons.FormatUnknown.String()
}

func countLoad(format, result string) {
	c, err := metrics.GetOrCreateCounter("icons/loads/total", map[string]string{
		"format": format,
		"result": result,
	})
	if err != nil {
		log.Warningf("loader: failed to get load counter: %s", err)
		return
	}
	c.Inc()
}

var loadDuration = sync.OnceValue(func() *metrics.Histogram {
	h, err := metrics.NewHistogram("icons/load/duration/seconds", nil, &metrics.Options{
		Name: "Icon Load Duration",
	})
	if err != nil {
		log.Warningf("loader: failed to register load duration metric: %s", err)
	}
	return h
})
