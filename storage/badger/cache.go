package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/validated-streams/witness-guard/storage"
)

func withLimit[K comparable, V any](limit uint) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.limit = limit
	}
}

type retrieveFunc[K comparable, V any] func(key K) func(*badger.Txn) (V, error)

func withRetrieve[K comparable, V any](retrieve retrieveFunc[K, V]) func(*Cache[K, V]) {
	return func(c *Cache[K, V]) {
		c.retrieve = retrieve
	}
}

func noRetrieve[K comparable, V any](K) func(*badger.Txn) (V, error) {
	return func(tx *badger.Txn) (V, error) {
		var nullV V
		return nullV, fmt.Errorf("no retrieve function for cache get available")
	}
}

// Cache is a read-through LRU cache in front of a badger lookup.
type Cache[K comparable, V any] struct {
	limit    uint
	retrieve retrieveFunc[K, V]
	cache    *lru.Cache[K, V]
}

func newCache[K comparable, V any](options ...func(*Cache[K, V])) *Cache[K, V] {
	c := Cache[K, V]{
		limit:    1000,
		retrieve: noRetrieve[K, V],
	}
	for _, option := range options {
		option(&c)
	}
	var err error
	c.cache, err = lru.New[K, V](int(c.limit))
	if err != nil {
		panic(err)
	}
	return &c
}

// Get will try to retrieve the resource from cache first, and then from the
// injected retrieve function. During normal operations, the following error returns are expected:
//   - `storage.ErrNotFound` if key is unknown.
func (c *Cache[K, V]) Get(key K) func(*badger.Txn) (V, error) {
	return func(tx *badger.Txn) (V, error) {

		// check if we have it in the cache
		resource, cached := c.cache.Get(key)
		if cached {
			return resource, nil
		}

		// get it from the database
		resource, err := c.retrieve(key)(tx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return resource, err
			}
			var nullV V
			return nullV, fmt.Errorf("could not retrieve resource: %w", err)
		}

		c.cache.Add(key, resource)
		return resource, nil
	}
}

// Insert adds or replaces a cached value. It must only be called after the
// value was committed to the database.
func (c *Cache[K, V]) Insert(key K, resource V) {
	c.cache.Add(key, resource)
}
