package directory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedDirectory decorates a Directory with a short-lived lookup cache.
// Both hits and not-found results are cached for the configured TTL, so a
// role change or new directory entry becomes visible after at most one TTL
// unless Invalidate is called. Lookup errors are never cached.
type CachedDirectory struct {
	inner Directory
	cache *gocache.Cache
}

// notFound marks a cached ErrNotFound result.
type notFound struct{}

// NewCachedDirectory wraps inner with a TTL cache. Expired entries are
// purged opportunistically at twice the TTL.
func NewCachedDirectory(inner Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// LookupRole returns the cached record when present, otherwise consults
// the inner directory and caches the outcome.
func (c *CachedDirectory) LookupRole(ctx context.Context, email string) (*RoleRecord, error) {
	if v, ok := c.cache.Get(email); ok {
		if _, miss := v.(notFound); miss {
			return nil, ErrNotFound
		}
		rec := v.(*RoleRecord)
		return rec, nil
	}

	rec, err := c.inner.LookupRole(ctx, email)
	if err == ErrNotFound {
		c.cache.SetDefault(email, notFound{})
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(email, rec)
	return rec, nil
}

// Invalidate drops the cached entry for email, forcing the next lookup
// to hit the directory store.
func (c *CachedDirectory) Invalidate(email string) {
	c.cache.Delete(email)
}
