package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/core"
	gocache "github.com/patrickmn/go-cache"
)

// resultCache memoizes outcomes by content hash. Processing is
// deterministic, so a hit is indistinguishable from a fresh run.
type resultCache struct {
	cache *gocache.Cache
}

type cached struct {
	rec *core.ProductRecord
	err error
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &resultCache{cache: gocache.New(ttl, 2*ttl)}
}

func contentKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(key string) (cached, bool) {
	v, found := c.cache.Get(key)
	if !found {
		return cached{}, false
	}
	hit := v.(cached)
	if hit.rec != nil {
		hit.rec = hit.rec.Clone()
	}
	return hit, true
}

func (c *resultCache) put(key string, rec *core.ProductRecord, err error) {
	if rec != nil {
		rec = rec.Clone()
	}
	c.cache.SetDefault(key, cached{rec: rec, err: err})
}
