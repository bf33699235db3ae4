package compute

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cszdzs/sonarqube/pkg/report"
)

// UUIDResolver maps a component ref to its stable external identifier.
type UUIDResolver interface {
	UUID(ref int64) (string, error)
}

// defaultUUIDCacheSize bounds the resolver cache. Matrices resolve at most
// MaxDSMDimension refs per node, but refs repeat heavily across sibling
// nodes, so a few thousand entries make re-reads rare.
const defaultUUIDCacheSize = 4096

// CachedResolver answers UUID lookups from an LRU cache in front of the
// report reader.
type CachedResolver struct {
	reader report.Reader
	cache  *lru.Cache[int64, string]
}

// NewUUIDCache builds a cached resolver over r. size <= 0 selects the
// default.
func NewUUIDCache(r report.Reader, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = defaultUUIDCacheSize
	}
	cache, err := lru.New[int64, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{reader: r, cache: cache}, nil
}

// UUID resolves ref, consulting the cache first.
func (c *CachedResolver) UUID(ref int64) (string, error) {
	if id, ok := c.cache.Get(ref); ok {
		return id, nil
	}
	comp, err := c.reader.Component(ref)
	if err != nil {
		return "", err
	}
	c.cache.Add(ref, comp.UUID)
	return comp.UUID, nil
}

var _ UUIDResolver = (*CachedResolver)(nil)
