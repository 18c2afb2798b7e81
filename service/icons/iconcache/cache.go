// Package iconcache stores materialized icons by a caller chosen key.
//
// Entries are held in an in-memory ARC cache and, if a database path is
// configured, persisted to a bbolt database so they survive restarts.
package iconcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bluele/gcache"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/safing/iconloader/base/log"
)

// ErrNotFound is returned if there is no valid entry for a key.
var ErrNotFound = errors.New("icon not in cache")

var bucketName = []byte("icons")

// Entry is a cached icon.
type Entry struct {
	MimeType string    `msgpack:"m"`
	Data     []byte    `msgpack:"d"`
	Width    int       `msgpack:"w"`
	Height   int       `msgpack:"h"`
	Source   string    `msgpack:"s"`
	Created  time.Time `msgpack:"c"`
	// Expires is zero for entries that do not expire.
	Expires time.Time `msgpack:"e"`
}

// Expired reports whether the entry is expired at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return !e.Expires.IsZero() && !now.Before(e.Expires)
}

// Options configure a Cache.
type Options struct {
	// Size is the amount of entries held in memory.
	Size int
	// TTL is the lifetime of new entries. Zero keeps them forever.
	TTL time.Duration
	// Path is the location of the database file. Empty keeps entries in
	// memory only.
	Path string
}

// Cache is an icon cache. It is safe for concurrent use.
type Cache struct {
	mem gcache.Cache
	db  *bbolt.DB
	ttl time.Duration
}

// New returns a new cache, opening or creating the database file if
// configured.
func New(opts Options) (*Cache, error) {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	c := &Cache{
		mem: gcache.New(opts.Size).ARC().Build(),
		ttl: opts.TTL,
	}
	if opts.Path == "" {
		return c, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Open/Create database, retry if there is a timeout.
	dbOptions := &bbolt.Options{
		Timeout: 1 * time.Second,
	}
	db, err := bbolt.Open(opts.Path, 0o0600, dbOptions)
	for i := 0; i < 5 && err != nil; i++ {
		db, err = bbolt.Open(opts.Path, 0o0600, dbOptions)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	c.db = db
	return c, nil
}

// Get returns the entry for key.
func (c *Cache) Get(key string) (*Entry, error) {
	now := time.Now()

	if v, err := c.mem.Get(key); err == nil {
		entry := v.(*Entry) //nolint:forcetypeassert
		if !entry.Expired(now) {
			return entry, nil
		}
		c.mem.Remove(key)
	}
	if c.db == nil {
		return nil, ErrNotFound
	}

	var entry *Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketName).Get([]byte(key))
		if value == nil {
			return ErrNotFound
		}
		entry = &Entry{}
		return msgpack.Unmarshal(value, entry)
	})
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	case entry.Expired(now):
		if err := c.Delete(key); err != nil {
			log.Warningf("iconcache: failed to delete expired entry %q: %s", key, err)
		}
		return nil, ErrNotFound
	}

	c.setMem(key, entry, now)
	return entry, nil
}

// Put stores the entry for key. Created and Expires are set if empty.
func (c *Cache) Put(key string, entry *Entry) error {
	now := time.Now()
	if entry.Created.IsZero() {
		entry.Created = now
	}
	if entry.Expires.IsZero() && c.ttl > 0 {
		entry.Expires = entry.Created.Add(c.ttl)
	}

	if c.db != nil {
		data, err := msgpack.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to encode cache entry: %w", err)
		}
		err = c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketName).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write cache entry %q: %w", key, err)
		}
	}

	c.setMem(key, entry, now)
	return nil
}

func (c *Cache) setMem(key string, entry *Entry, now time.Time) {
	var err error
	if entry.Expires.IsZero() {
		err = c.mem.Set(key, entry)
	} else {
		err = c.mem.SetWithExpire(key, entry, entry.Expires.Sub(now))
	}
	if err != nil {
		log.Warningf("iconcache: failed to add %q to memory cache: %s", key, err)
	}
}

// Delete removes the entry for key.
func (c *Cache) Delete(key string) error {
	c.mem.Remove(key)
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

// Purge removes all expired entries from the database and returns how many
// were removed.
func (c *Cache) Purge() (int, error) {
	if c.db == nil {
		return 0, nil
	}

	now := time.Now()
	var purged int
	err := c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)

		// Keys cannot be deleted while iterating.
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			entry := &Entry{}
			if err := msgpack.Unmarshal(v, entry); err != nil || entry.Expired(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			c.mem.Remove(string(k))
		}
		purged = len(expired)
		return nil
	})
	return purged, err
}

// Close closes the database.
func (c *Cache) Close() error {
	c.mem.Purge()
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
