package mint

import (
	"github.com/dgraph-io/ristretto"
)

// compileCache keeps successfully compiled units keyed by their source text.
// Resolution depends only on the source, so a cached unit is valid for any
// interpreter. Cost is the source length in bytes.
type compileCache struct {
	cache *ristretto.Cache
}

func newCompileCache(maxBytes int64) (*compileCache, error) {
	if maxBytes <= 0 {
		return nil, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: max(maxBytes/64*10, 1000),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &compileCache{cache: cache}, nil
}

func (c *compileCache) get(source string) (*Unit, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(source)
	if !ok {
		return nil, false
	}
	unit, ok := v.(*Unit)
	return unit, ok
}

func (c *compileCache) put(unit *Unit) {
	if c == nil {
		return
	}
	c.cache.Set(unit.Source, unit, int64(len(unit.Source))+1)
}

// wait flushes pending writes. Ristretto applies Set asynchronously.
func (c *compileCache) wait() {
	if c == nil {
		return
	}
	c.cache.Wait()
}

func (c *compileCache) close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
