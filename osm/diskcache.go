package osm

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/paulmach/orb"
	bolt "go.etcd.io/bbolt"
)

var diskBucket = []byte("osm_ways")

// DiskCache persists geometry query results in a bbolt database, keyed
// like the in-memory cache, so repeated runs over the same area work
// without network access. Offline storage is this collaborator's own
// concern; the classifier never knows it exists.
type DiskCache struct {
	src    GeometrySource
	db     *bolt.DB
	level  int
	logger *slog.Logger
}

func NewDiskCache(src GeometrySource, path string, s2Level int) (*DiskCache, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(diskBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DiskCache{
		src:    src,
		db:     db,
		level:  s2Level,
		logger: slog.With("pkg", "osm", "source", "diskcache"),
	}, nil
}

func (d *DiskCache) Close() error {
	return d.db.Close()
}

func (d *DiskCache) Query(ctx context.Context, bound orb.Bound, filter TagFilter) ([]Way, error) {
	key := []byte(CacheKey(bound, filter, d.level))

	var cached []byte
	_ = d.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(diskBucket).Get(key); v != nil {
			cached = make([]byte, len(v))
			copy(cached, v)
		}
		return nil
	})
	if cached != nil {
		ways := []Way{}
		if err := json.Unmarshal(cached, &ways); err == nil {
			return ways, nil
		}
		// Unreadable entry: fall through and overwrite it.
	}

	ways, err := d.src.Query(ctx, bound, filter)
	if err != nil {
		return nil, err
	}
	if ways == nil {
		// A nil result means the source had nothing to say (null
		// object, offline): not worth persisting as "known empty."
		return nil, nil
	}
	encoded, err := json.Marshal(ways)
	if err != nil {
		return ways, nil
	}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(diskBucket).Put(key, encoded)
	}); err != nil {
		d.logger.Debug("Failed to persist geometry cache entry", "error", err)
	}
	return ways, nil
}
