package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/base/metrics"
	"github.com/safing/iconloader/service/api"
	"github.com/safing/iconloader/service/icons"
	"github.com/safing/iconloader/service/icons/fetch"
	"github.com/safing/iconloader/service/icons/iconcache"
	"github.com/safing/iconloader/service/icons/loader"
	"github.com/safing/iconloader/service/icons/lookup"
	"github.com/safing/iconloader/service/icons/materialize"
)

// Instance is an instance of the icon loader service.
type Instance struct {
	version string
	config  *Config

	fetcher      *fetch.Fetcher
	cache        *iconcache.Cache
	materializer *materialize.Materializer
	loader       *loader.Loader
	apiLoader    *loader.Loader
	lookup       *lookup.Client
	api          *api.Server
}

// New returns a new icon loader instance. The config must be initialized.
func New(version string, cfg *Config) (*Instance, error) {
	instance := &Instance{
		version: version,
		config:  cfg,
	}

	// Metric names are frozen by the first registered metric.
	if err := metrics.SetNamespace("iconloader"); err != nil && !errors.Is(err, metrics.ErrAlreadySet) {
		log.Debugf("service: metrics namespace not set: %s", err)
	}

	cacheOpts := iconcache.Options{
		Size: cfg.CacheSize,
		TTL:  cfg.CacheTTL,
	}
	if cfg.PersistCache {
		cacheOpts.Path = cfg.CachePath()
	}
	var err error
	instance.cache, err = iconcache.New(cacheOpts)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	instance.fetcher = fetch.New(fetch.Options{
		Timeout:   cfg.FetchTimeout,
		MaxSize:   cfg.MaxFetchSize,
		UserAgent: cfg.UserAgent,
	})
	instance.materializer = materialize.New(materialize.Options{
		MaxEdge: cfg.MaxEdge,
	})
	loaderOpts := loader.Options{
		Decode: icons.Options{
			Policy:      cfg.Policy(),
			StrictSniff: cfg.StrictSniff,
		},
		Parallelism: cfg.Parallelism,
	}
	instance.loader = loader.New(instance.fetcher, instance.cache, instance.materializer, loaderOpts)
	// API clients may only make the service fetch remote resources.
	apiFetcher := fetch.New(fetch.Options{
		Timeout:    cfg.FetchTimeout,
		MaxSize:    cfg.MaxFetchSize,
		UserAgent:  cfg.UserAgent,
		RemoteOnly: true,
	})
	instance.apiLoader = loader.New(apiFetcher, instance.cache, instance.materializer, loaderOpts)
	instance.lookup = lookup.New(instance.fetcher, instance.cache, lookup.Options{
		BaseURL: cfg.Lookup.BaseURL,
		Entity:  cfg.Lookup.Entity,
		Country: cfg.Lookup.Country,
		Lang:    cfg.Lookup.Lang,
		Limit:   cfg.Lookup.Limit,
	})
	instance.api = api.New(cfg.ListenAddress, instance.apiLoader, instance.lookup)

	return instance, nil
}

// Start starts the background parts of the instance.
func (i *Instance) Start() error {
	if err := metrics.RegisterRuntimeMetrics(); err != nil && !errors.Is(err, metrics.ErrAlreadyRegistered) {
		return fmt.Errorf("register runtime metrics: %w", err)
	}
	if err := metrics.RegisterLogMetrics(); err != nil && !errors.Is(err, metrics.ErrAlreadyRegistered) {
		return fmt.Errorf("register log metrics: %w", err)
	}

	purged, err := i.cache.Purge()
	if err != nil {
		log.Warningf("service: failed to purge expired icons: %s", err)
	} else if purged > 0 {
		log.Infof("service: purged %d expired icons from cache", purged)
	}
	return nil
}

// Serve serves the HTTP API until the context is canceled.
func (i *Instance) Serve(ctx context.Context) error {
	if err := i.Start(); err != nil {
		return err
	}
	return i.api.Serve(ctx)
}

// Stop releases all resources of the instance.
func (i *Instance) Stop() error {
	return i.cache.Close()
}

// Version returns the version.
func (i *Instance) Version() string {
	return i.version
}

// Config returns the config.
func (i *Instance) Config() *Config {
	return i.config
}

// Loader returns the icon loader.
func (i *Instance) Loader() *loader.Loader {
	return i.loader
}

// Lookup returns the app lookup client.
func (i *Instance) Lookup() *lookup.Client {
	return i.lookup
}

// API returns the api server.
func (i *Instance) API() *api.Server {
	return i.api
}
