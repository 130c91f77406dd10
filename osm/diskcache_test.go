package osm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	bolt "go.etcd.io/bbolt"

	"github.com/rotblauer/wayward/types/mode"
)

var diskTestBound = orb.Bound{Min: orb.Point{13.0, 52.0}, Max: orb.Point{13.001, 52.001}}

func diskTestWays() []Way {
	return []Way{{
		ID:   42,
		Line: orb.LineString{{13.0, 52.0}, {13.001, 52.001}},
		Tags: map[string]string{"highway": "residential", "maxspeed": "30"},
	}}
}

func TestDiskCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osm.db")
	filter := FilterForMode(mode.Car)

	src := &countingSource{ways: diskTestWays()}
	disk, err := NewDiskCache(src, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		ways, err := disk.Query(context.Background(), diskTestBound, filter)
		if err != nil || len(ways) != 1 || ways[0].ID != 42 {
			t.Fatalf("query %d: %v, %+v", i, err, ways)
		}
	}
	if src.calls != 1 {
		t.Errorf("second identical query must be served from disk: %d upstream calls", src.calls)
	}
	if err := disk.Close(); err != nil {
		t.Fatal(err)
	}

	// The entry outlives the process: a reopened cache over a dead
	// source still serves it, tags and geometry intact.
	down := &countingSource{err: errors.New("overpass unreachable")}
	disk, err = NewDiskCache(down, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer disk.Close()

	ways, err := disk.Query(context.Background(), diskTestBound, filter)
	if err != nil || len(ways) != 1 {
		t.Fatalf("reopened: %v, %d ways", err, len(ways))
	}
	if down.calls != 0 {
		t.Errorf("persisted entry must not reach the source: %d calls", down.calls)
	}
	if limit, ok := ways[0].MaxSpeedKmh(); !ok || limit != 30 {
		t.Errorf("round-tripped way lost its tags: %v %v", limit, ok)
	}
}

func TestDiskCacheSkipsNilResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osm.db")
	filter := FilterForMode(mode.Car)

	// A null source answers nil: nothing worth remembering.
	disk, err := NewDiskCache(Null{}, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	if ways, err := disk.Query(context.Background(), diskTestBound, filter); err != nil || ways != nil {
		t.Fatalf("null source through disk cache: %v, %v", err, ways)
	}
	if err := disk.Close(); err != nil {
		t.Fatal(err)
	}

	// A later run with a live source must not be poisoned by a
	// persisted "known empty" from the offline one.
	src := &countingSource{ways: diskTestWays()}
	disk, err = NewDiskCache(src, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer disk.Close()

	ways, err := disk.Query(context.Background(), diskTestBound, filter)
	if err != nil || len(ways) != 1 {
		t.Fatalf("live source after offline run: %v, %d ways", err, len(ways))
	}
	if src.calls != 1 {
		t.Errorf("live source must be consulted: %d calls", src.calls)
	}
}

func TestDiskCacheErrorsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osm.db")
	src := &countingSource{err: errors.New("down")}
	disk, err := NewDiskCache(src, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer disk.Close()

	for i := 0; i < 2; i++ {
		if _, err := disk.Query(context.Background(), diskTestBound, TagFilter{Name: "road"}); err == nil {
			t.Fatal("want error from source")
		}
	}
	if src.calls != 2 {
		t.Errorf("errors must pass through uncached: %d calls", src.calls)
	}
}

func TestDiskCacheOverwritesCorruptEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osm.db")
	filter := FilterForMode(mode.Car)
	key := []byte(CacheKey(diskTestBound, filter, 16))

	// Seed an unreadable entry under the query's key.
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(diskBucket)
		if err != nil {
			return err
		}
		return b.Put(key, []byte("not json"))
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	src := &countingSource{ways: diskTestWays()}
	disk, err := NewDiskCache(src, path, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer disk.Close()

	// First query falls through to the source; the second proves the
	// corrupt entry was overwritten with a readable one.
	for i := 0; i < 2; i++ {
		ways, err := disk.Query(context.Background(), diskTestBound, filter)
		if err != nil || len(ways) != 1 {
			t.Fatalf("query %d: %v, %d ways", i, err, len(ways))
		}
	}
	if src.calls != 1 {
		t.Errorf("corrupt entry must be replaced after one source query: %d calls", src.calls)
	}
}
