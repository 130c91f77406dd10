package trace

import (
	"fmt"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
)

// NewDedupeLRUFunc returns a predicate that reports true the first time
// a point is seen, using a Least Recently Used (LRU) cache of point hashes.
// Loggers that flush on reconnect love re-sending the tail of a trace;
// this keeps the duplicates out of the clustering input.
func NewDedupeLRUFunc() func(Point) bool {
	dedupeCache := lru.New(10_000)
	return func(p Point) bool {
		hash, err := hashstructure.Hash(p, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		if _, ok := dedupeCache.Get(key); ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
